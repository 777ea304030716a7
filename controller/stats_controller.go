package controller

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

const statsCacheKey = "chat:stats"

type countryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type statsResponse struct {
	TotalSessions     int            `json:"totalSessions"`
	TotalLeads        int            `json:"totalLeads"`
	TotalGatedLeads   int            `json:"totalGatedLeads"`
	TotalUserMessages int            `json:"totalUserMessages"`
	TotalBotMessages  int            `json:"totalBotMessages"`
	SessionsByCountry []countryCount `json:"sessionsByCountry"`
}

// Stats serves the aggregate counters for the internal dashboard widgets.
// The payload is cheap but hot, so it sits in redis for a short TTL.
func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if c.redis != nil {
		if cached, err := c.redis.Get(ctx, statsCacheKey).Result(); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	stats, err := c.collectStats()
	if err != nil {
		c.logRequestError(r, "stats aggregation failed", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	b, _ := json.Marshal(stats)
	if c.redis != nil {
		ttl := time.Duration(c.cfg.StatsCacheTTLSec) * time.Second
		if ttl > 0 {
			if err := c.redis.Set(ctx, statsCacheKey, string(b), ttl).Err(); err != nil {
				c.logRequestWarn(r, "stats cache write failed", err)
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (c *Controller) collectStats() (statsResponse, error) {
	var stats statsResponse
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM chat_sessions`).Scan(&stats.TotalSessions); err != nil {
		return stats, err
	}
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM chat_leads`).Scan(&stats.TotalLeads); err != nil {
		return stats, err
	}
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM chat_leads WHERE lead_type=$1`, leadTypeGatedInfo).Scan(&stats.TotalGatedLeads); err != nil {
		return stats, err
	}
	var userMsgs, botMsgs sql.NullInt64
	if err := c.db.QueryRow(`SELECT SUM(user_message_count),SUM(bot_message_count) FROM chat_sessions`).Scan(&userMsgs, &botMsgs); err != nil {
		return stats, err
	}
	stats.TotalUserMessages = int(userMsgs.Int64)
	stats.TotalBotMessages = int(botMsgs.Int64)

	rows, err := c.db.Query(`SELECT country,COUNT(*) FROM chat_sessions GROUP BY country ORDER BY COUNT(*) DESC`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	stats.SessionsByCountry = []countryCount{}
	for rows.Next() {
		var cc countryCount
		if err := rows.Scan(&cc.Country, &cc.Count); err != nil {
			return stats, err
		}
		stats.SessionsByCountry = append(stats.SessionsByCountry, cc)
	}
	return stats, rows.Err()
}
