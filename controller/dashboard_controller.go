package controller

import (
	"database/sql"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eyepatch-3097/ds-chatbot/utils"
)

const (
	dashboardCookieName = "dashboard_token"
	dashboardTokenTTL   = 24 * time.Hour
	dashboardPageSize   = 25
	dashboardSeriesDays = 14
)

type dashboardClaims struct {
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// DashboardLogin checks the configured operator credentials and issues a
// signed token, both as JSON and as an HttpOnly cookie so the HTML views
// work from a plain browser.
func (c *Controller) DashboardLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.JSONErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := utils.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		utils.JSONErr(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if email != utils.NormalizeEmail(c.cfg.DashboardEmail) || req.Password != c.cfg.DashboardPassword {
		c.logRequestWarn(r, "dashboard login rejected", errors.New("bad credentials"))
		utils.JSONErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	exp := time.Now().Add(dashboardTokenTTL)
	claims := dashboardClaims{Email: email, Type: "dashboard", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.cfg.DashboardJWTSecret))
	if err != nil {
		c.logRequestError(r, "dashboard token signing failed", err)
		utils.JSONErr(w, http.StatusInternalServerError, "could not create token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     dashboardCookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.cfg.Environment == "production",
	})
	utils.JSONOK(w, map[string]interface{}{
		"token":     token,
		"expiresAt": exp.UTC().Format(time.RFC3339),
	})
}

// ValidateDashboardRequest accepts the token either as the login cookie or
// as a Bearer header.
func (c *Controller) ValidateDashboardRequest(r *http.Request) error {
	raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if raw == "" {
		if ck, err := r.Cookie(dashboardCookieName); err == nil {
			raw = ck.Value
		}
	}
	if raw == "" {
		return errors.New("dashboard authentication required")
	}
	claims := &dashboardClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(c.cfg.DashboardJWTSecret), nil
	})
	if err != nil || !tok.Valid || claims.Type != "dashboard" {
		return errors.New("invalid dashboard token")
	}
	return nil
}

// RedirectToLogin is the onError handler for the HTML views: browsers get
// the login page instead of a JSON 401.
func (c *Controller) RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_ = loginPageTmpl.Execute(w, nil)
		return
	}
	utils.JSONErr(w, http.StatusUnauthorized, "dashboard authentication required")
}

type dailyPoint struct {
	Day      string
	Sessions int
	Leads    int
}

type sessionRow struct {
	ID           string
	Country      string
	Region       string
	City         string
	UserMessages int
	BotMessages  int
	Leads        int
	StartedAt    string
	LastSeen     string
}

type leadRow struct {
	Name      string
	Email     string
	LeadType  string
	Message   string
	CreatedAt string
}

type leadContact struct {
	Email     string
	Leads     int
	FirstSeen string
	LastSeen  string
}

type dashboardView struct {
	Stats          statsResponse
	ConversionRate string
	Daily          []dailyPoint
	Sessions       []sessionRow
	Page           int
	PrevPage       int
	NextPage       int
	HasPrev        bool
	HasNext        bool
}

type leadsView struct {
	Leads    []leadRow
	Contacts []leadContact
	Page     int
	PrevPage int
	NextPage int
	HasPrev  bool
	HasNext  bool
}

// Dashboard renders the operator overview: totals, a two week daily series
// and the most recent sessions.
func (c *Controller) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.collectStats()
	if err != nil {
		c.logRequestError(r, "dashboard stats failed", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	daily, err := c.dailySeries(dashboardSeriesDays)
	if err != nil {
		c.logRequestError(r, "dashboard series failed", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	page := pageParam(r)
	sessions, hasNext, err := c.recentSessions(page)
	if err != nil {
		c.logRequestError(r, "dashboard sessions failed", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	view := dashboardView{
		Stats:          stats,
		ConversionRate: conversionRate(stats.TotalLeads, stats.TotalSessions),
		Daily:          daily,
		Sessions:       sessions,
		Page:           page,
		PrevPage:       page - 1,
		NextPage:       page + 1,
		HasPrev:        page > 1,
		HasNext:        hasNext,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, view); err != nil {
		c.logRequestError(r, "dashboard render failed", err)
	}
}

// DashboardLeads renders the captured leads plus a per-contact rollup.
func (c *Controller) DashboardLeads(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	leads, hasNext, err := c.recentLeads(page)
	if err != nil {
		c.logRequestError(r, "dashboard leads failed", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	contacts, err := c.leadContacts()
	if err != nil {
		c.logRequestError(r, "dashboard contacts failed", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	view := leadsView{
		Leads:    leads,
		Contacts: contacts,
		Page:     page,
		PrevPage: page - 1,
		NextPage: page + 1,
		HasPrev:  page > 1,
		HasNext:  hasNext,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := leadsTmpl.Execute(w, view); err != nil {
		c.logRequestError(r, "leads render failed", err)
	}
}

func (c *Controller) dailySeries(days int) ([]dailyPoint, error) {
	start := time.Now().UTC().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)
	sessionCounts, err := c.countsByDay(`SELECT TO_CHAR(created_at,'YYYY-MM-DD'),COUNT(*) FROM chat_sessions WHERE created_at >= $1 GROUP BY 1`, start)
	if err != nil {
		return nil, err
	}
	leadCounts, err := c.countsByDay(`SELECT TO_CHAR(created_at,'YYYY-MM-DD'),COUNT(*) FROM chat_leads WHERE created_at >= $1 GROUP BY 1`, start)
	if err != nil {
		return nil, err
	}
	return fillDailySeries(start, days, sessionCounts, leadCounts), nil
}

func (c *Controller) countsByDay(query string, start time.Time) (map[string]int, error) {
	rows, err := c.db.Query(query, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		out[day] = n
	}
	return out, rows.Err()
}

// fillDailySeries emits one point per calendar day, zero where a day had
// no activity, so chart axes stay continuous.
func fillDailySeries(start time.Time, days int, sessionCounts, leadCounts map[string]int) []dailyPoint {
	series := make([]dailyPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, dailyPoint{Day: day, Sessions: sessionCounts[day], Leads: leadCounts[day]})
	}
	return series
}

func (c *Controller) recentSessions(page int) ([]sessionRow, bool, error) {
	offset := (page - 1) * dashboardPageSize
	rows, err := c.db.Query(`SELECT id,country,region,city,user_message_count,bot_message_count,lead_count,created_at,last_message_at
		FROM chat_sessions ORDER BY created_at DESC LIMIT $1 OFFSET $2`, dashboardPageSize+1, offset)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	var out []sessionRow
	for rows.Next() {
		var s sessionRow
		var created time.Time
		var last sql.NullTime
		if err := rows.Scan(&s.ID, &s.Country, &s.Region, &s.City, &s.UserMessages, &s.BotMessages, &s.Leads, &created, &last); err != nil {
			return nil, false, err
		}
		s.StartedAt = created.UTC().Format("2006-01-02 15:04")
		if last.Valid {
			s.LastSeen = last.Time.UTC().Format("2006-01-02 15:04")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	hasNext := len(out) > dashboardPageSize
	if hasNext {
		out = out[:dashboardPageSize]
	}
	return out, hasNext, nil
}

func (c *Controller) recentLeads(page int) ([]leadRow, bool, error) {
	offset := (page - 1) * dashboardPageSize
	rows, err := c.db.Query(`SELECT name,email,lead_type,message,created_at
		FROM chat_leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`, dashboardPageSize+1, offset)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	var out []leadRow
	for rows.Next() {
		var l leadRow
		var created time.Time
		if err := rows.Scan(&l.Name, &l.Email, &l.LeadType, &l.Message, &created); err != nil {
			return nil, false, err
		}
		l.CreatedAt = created.UTC().Format("2006-01-02 15:04")
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	hasNext := len(out) > dashboardPageSize
	if hasNext {
		out = out[:dashboardPageSize]
	}
	return out, hasNext, nil
}

func (c *Controller) leadContacts() ([]leadContact, error) {
	rows, err := c.db.Query(`SELECT email,COUNT(*),MIN(created_at),MAX(created_at)
		FROM chat_leads GROUP BY email ORDER BY MAX(created_at) DESC LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []leadContact
	for rows.Next() {
		var lc leadContact
		var first, last time.Time
		if err := rows.Scan(&lc.Email, &lc.Leads, &first, &last); err != nil {
			return nil, err
		}
		lc.FirstSeen = first.UTC().Format("2006-01-02 15:04")
		lc.LastSeen = last.UTC().Format("2006-01-02 15:04")
		out = append(out, lc)
	}
	return out, rows.Err()
}

func conversionRate(leads, sessions int) string {
	if sessions == 0 {
		return "0.0%"
	}
	return strconv.FormatFloat(float64(leads)/float64(sessions)*100, 'f', 1, 64) + "%"
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

var loginPageTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Dashboard Login</title>
<style>body{font-family:system-ui,sans-serif;background:#f5f6f8;display:flex;justify-content:center;padding-top:10vh}
form{background:#fff;padding:2rem;border-radius:8px;box-shadow:0 1px 4px rgba(0,0,0,.1);width:320px}
input{width:100%;padding:.5rem;margin:.5rem 0 1rem;border:1px solid #ccc;border-radius:4px;box-sizing:border-box}
button{width:100%;padding:.6rem;background:#1f6feb;color:#fff;border:0;border-radius:4px;cursor:pointer}</style>
</head>
<body>
<form onsubmit="login(event)">
<h2>Dashboard Login</h2>
<label>Email</label><input id="email" type="email" required>
<label>Password</label><input id="password" type="password" required>
<button type="submit">Sign in</button>
<p id="err" style="color:#c00"></p>
</form>
<script>
async function login(e){
  e.preventDefault();
  const res = await fetch('/api/dashboard/login',{method:'POST',headers:{'Content-Type':'application/json'},
    body:JSON.stringify({email:document.getElementById('email').value,password:document.getElementById('password').value})});
  if(res.ok){location.reload();}else{document.getElementById('err').textContent='Invalid credentials';}
}
</script>
</body>
</html>`))

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Chatbot Dashboard</title>
<style>body{font-family:system-ui,sans-serif;background:#f5f6f8;margin:0;padding:2rem}
h1{margin-top:0}.cards{display:flex;gap:1rem;flex-wrap:wrap;margin-bottom:2rem}
.card{background:#fff;border-radius:8px;padding:1rem 1.5rem;box-shadow:0 1px 4px rgba(0,0,0,.08);min-width:140px}
.card .num{font-size:1.6rem;font-weight:600}.card .label{color:#667;font-size:.85rem}
table{width:100%;border-collapse:collapse;background:#fff;border-radius:8px;overflow:hidden;box-shadow:0 1px 4px rgba(0,0,0,.08);margin-bottom:2rem}
th,td{padding:.5rem .75rem;text-align:left;border-bottom:1px solid #eee;font-size:.9rem}
th{background:#fafbfc;color:#556}
nav a{margin-right:1rem}.pager a{margin-right:.5rem}</style>
</head>
<body>
<nav><a href="/dashboard">Overview</a><a href="/dashboard/leads">Leads</a></nav>
<h1>Chatbot Dashboard</h1>
<div class="cards">
<div class="card"><div class="num">{{.Stats.TotalSessions}}</div><div class="label">Sessions</div></div>
<div class="card"><div class="num">{{.Stats.TotalLeads}}</div><div class="label">Leads</div></div>
<div class="card"><div class="num">{{.Stats.TotalGatedLeads}}</div><div class="label">Gated Leads</div></div>
<div class="card"><div class="num">{{.Stats.TotalUserMessages}}</div><div class="label">User Messages</div></div>
<div class="card"><div class="num">{{.Stats.TotalBotMessages}}</div><div class="label">Bot Messages</div></div>
<div class="card"><div class="num">{{.ConversionRate}}</div><div class="label">Lead Conversion</div></div>
</div>
<h2>Last {{len .Daily}} Days</h2>
<table>
<tr><th>Day</th><th>Sessions</th><th>Leads</th></tr>
{{range .Daily}}<tr><td>{{.Day}}</td><td>{{.Sessions}}</td><td>{{.Leads}}</td></tr>{{end}}
</table>
<h2>Sessions by Country</h2>
<table>
<tr><th>Country</th><th>Sessions</th></tr>
{{range .Stats.SessionsByCountry}}<tr><td>{{if .Country}}{{.Country}}{{else}}(unknown){{end}}</td><td>{{.Count}}</td></tr>{{end}}
</table>
<h2>Recent Sessions</h2>
<table>
<tr><th>Session</th><th>Location</th><th>User Msgs</th><th>Bot Msgs</th><th>Leads</th><th>Started</th><th>Last Seen</th></tr>
{{range .Sessions}}<tr><td>{{.ID}}</td><td>{{.City}}{{if .City}}, {{end}}{{.Country}}</td><td>{{.UserMessages}}</td><td>{{.BotMessages}}</td><td>{{.Leads}}</td><td>{{.StartedAt}}</td><td>{{.LastSeen}}</td></tr>{{end}}
</table>
<div class="pager">
{{if .HasPrev}}<a href="/dashboard?page={{.PrevPage}}">&laquo; Prev</a>{{end}}
<span>Page {{.Page}}</span>
{{if .HasNext}}<a href="/dashboard?page={{.NextPage}}">Next &raquo;</a>{{end}}
</div>
</body>
</html>`))

var leadsTmpl = template.Must(template.New("leads").Parse(`<!DOCTYPE html>
<html>
<head><title>Chatbot Leads</title>
<style>body{font-family:system-ui,sans-serif;background:#f5f6f8;margin:0;padding:2rem}
h1{margin-top:0}
table{width:100%;border-collapse:collapse;background:#fff;border-radius:8px;overflow:hidden;box-shadow:0 1px 4px rgba(0,0,0,.08);margin-bottom:2rem}
th,td{padding:.5rem .75rem;text-align:left;border-bottom:1px solid #eee;font-size:.9rem}
th{background:#fafbfc;color:#556}
nav a{margin-right:1rem}.pager a{margin-right:.5rem}</style>
</head>
<body>
<nav><a href="/dashboard">Overview</a><a href="/dashboard/leads">Leads</a></nav>
<h1>Captured Leads</h1>
<table>
<tr><th>Name</th><th>Email</th><th>Type</th><th>Message</th><th>Captured</th></tr>
{{range .Leads}}<tr><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.LeadType}}</td><td>{{.Message}}</td><td>{{.CreatedAt}}</td></tr>{{end}}
</table>
<div class="pager">
{{if .HasPrev}}<a href="/dashboard/leads?page={{.PrevPage}}">&laquo; Prev</a>{{end}}
<span>Page {{.Page}}</span>
{{if .HasNext}}<a href="/dashboard/leads?page={{.NextPage}}">Next &raquo;</a>{{end}}
</div>
<h2>Contacts</h2>
<table>
<tr><th>Email</th><th>Leads</th><th>First Seen</th><th>Last Seen</th></tr>
{{range .Contacts}}<tr><td>{{.Email}}</td><td>{{.Leads}}</td><td>{{.FirstSeen}}</td><td>{{.LastSeen}}</td></tr>{{end}}
</table>
</body>
</html>`))
