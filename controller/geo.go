package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const geoLookupTimeout = 2 * time.Second

// privateIPPrefixes never leave the building; skip the lookup for them.
var privateIPPrefixes = []string{"127.", "10.", "192.168.", "172.16."}

type geoLocation struct {
	Country string
	Region  string
	City    string
}

type geoClient struct {
	baseURL string
	http    *http.Client
}

func newGeoClient(baseURL string) *geoClient {
	return &geoClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: geoLookupTimeout},
	}
}

func isPrivateIP(ip string) bool {
	for _, prefix := range privateIPPrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}

// Lookup resolves an IP to country/region/city with a single attempt.
func (c *geoClient) Lookup(ctx context.Context, ip string) (geoLocation, error) {
	var loc geoLocation
	endpoint := c.baseURL + "/" + url.PathEscape(ip) + "/json/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return loc, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return loc, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return loc, fmt.Errorf("geo lookup status %d", resp.StatusCode)
	}
	var out struct {
		CountryName string `json:"country_name"`
		Region      string `json:"region"`
		City        string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return loc, err
	}
	loc.Country = out.CountryName
	loc.Region = out.Region
	loc.City = out.City
	return loc, nil
}

// enrichSessionGeo fills in the geo columns for a freshly created session.
// Best-effort: the session already carries the IP, so any failure just
// leaves the geo fields blank.
func (c *Controller) enrichSessionGeo(ctx context.Context, r *http.Request, sessionID, ip string) {
	if strings.TrimSpace(ip) == "" || isPrivateIP(ip) {
		return
	}
	loc, err := c.geo.Lookup(ctx, ip)
	if err != nil {
		c.logRequestWarn(r, "geo lookup failed", err, "session_id", sessionID, "ip", ip)
		return
	}
	if _, err := c.db.ExecContext(ctx, `UPDATE chat_sessions SET country=$2,region=$3,city=$4,updated_at=CURRENT_TIMESTAMP WHERE id=$1`,
		sessionID, loc.Country, loc.Region, loc.City); err != nil {
		c.logRequestWarn(r, "geo fields update failed", err, "session_id", sessionID)
	}
}
