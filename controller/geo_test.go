package controller

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsPrivateIP(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1":    true,
		"10.4.2.1":     true,
		"192.168.1.20": true,
		"172.16.0.9":   true,
		"8.8.8.8":      false,
		"172.32.0.1":   false,
		"":             false,
	}
	for ip, want := range cases {
		if got := isPrivateIP(ip); got != want {
			t.Errorf("isPrivateIP(%q) = %v, want %v", ip, got, want)
		}
	}
}

func TestGeoLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/203.0.113.7/json/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ip":"203.0.113.7","country_name":"India","region":"Karnataka","city":"Bengaluru"}`)
	}))
	defer server.Close()

	client := newGeoClient(server.URL)
	loc, err := client.Lookup(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if loc.Country != "India" || loc.Region != "Karnataka" || loc.City != "Bengaluru" {
		t.Fatalf("unexpected location: %+v", loc)
	}
}

func TestGeoLookupNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newGeoClient(server.URL)
	if _, err := client.Lookup(context.Background(), "203.0.113.7"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestEnrichSessionGeoSkipsPrivateIPs(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := &Controller{geo: newGeoClient(server.URL)}
	for _, ip := range []string{"", "   ", "127.0.0.1", "10.1.2.3", "192.168.0.5", "172.16.9.9"} {
		c.enrichSessionGeo(context.Background(), nil, "s1", ip)
	}
	if calls != 0 {
		t.Fatalf("expected no lookups for private or blank IPs, got %d", calls)
	}
}

func TestGeoLookupBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer server.Close()

	client := newGeoClient(server.URL)
	if _, err := client.Lookup(context.Background(), "203.0.113.7"); err == nil {
		t.Fatal("expected error on malformed body")
	}
}
