package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eyepatch-3097/ds-chatbot/config"
)

func TestFillDailySeries(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := fillDailySeries(start, 4,
		map[string]int{"2026-08-01": 3, "2026-08-03": 1},
		map[string]int{"2026-08-03": 2},
	)
	assert.Len(t, series, 4)
	assert.Equal(t, dailyPoint{Day: "2026-08-01", Sessions: 3, Leads: 0}, series[0])
	assert.Equal(t, dailyPoint{Day: "2026-08-02", Sessions: 0, Leads: 0}, series[1])
	assert.Equal(t, dailyPoint{Day: "2026-08-03", Sessions: 1, Leads: 2}, series[2])
	assert.Equal(t, dailyPoint{Day: "2026-08-04", Sessions: 0, Leads: 0}, series[3])
}

func TestConversionRate(t *testing.T) {
	assert.Equal(t, "0.0%", conversionRate(0, 0))
	assert.Equal(t, "0.0%", conversionRate(0, 10))
	assert.Equal(t, "25.0%", conversionRate(1, 4))
	assert.Equal(t, "33.3%", conversionRate(1, 3))
	assert.Equal(t, "100.0%", conversionRate(7, 7))
}

func TestPageParam(t *testing.T) {
	for query, want := range map[string]int{"": 1, "page=0": 1, "page=-2": 1, "page=abc": 1, "page=3": 3} {
		req := httptest.NewRequest(http.MethodGet, "/dashboard?"+query, nil)
		assert.Equal(t, want, pageParam(req), "query %q", query)
	}
}

func dashboardTestController() *Controller {
	cfg := config.Config{
		DashboardEmail:     "ops@example.com",
		DashboardPassword:  "hunter2",
		DashboardJWTSecret: "test-secret",
	}
	return New(cfg, nil, nil, nil)
}

func TestDashboardTokenRoundTrip(t *testing.T) {
	c := dashboardTestController()

	body := `{"email":"OPS@example.com","password":"hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.DashboardLogin(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == dashboardCookieName {
			cookie = ck
		}
	}
	if assert.NotNil(t, cookie, "login should set the dashboard cookie") {
		authed := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		authed.AddCookie(cookie)
		assert.NoError(t, c.ValidateDashboardRequest(authed))

		bearer := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		bearer.Header.Set("Authorization", "Bearer "+cookie.Value)
		assert.NoError(t, c.ValidateDashboardRequest(bearer))
	}
}

func TestDashboardLoginRejectsBadCredentials(t *testing.T) {
	c := dashboardTestController()
	cases := []string{
		`{"email":"ops@example.com","password":"wrong"}`,
		`{"email":"other@example.com","password":"hunter2"}`,
		`{"email":"","password":""}`,
	}
	wantCodes := []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusBadRequest}
	for i, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.DashboardLogin(rec, req)
		assert.Equal(t, wantCodes[i], rec.Code, "body %q", body)
	}
}

func TestValidateDashboardRequestRejectsGarbage(t *testing.T) {
	c := dashboardTestController()

	anon := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.Error(t, c.ValidateDashboardRequest(anon))

	forged := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	forged.Header.Set("Authorization", "Bearer not-a-token")
	assert.Error(t, c.ValidateDashboardRequest(forged))
}
