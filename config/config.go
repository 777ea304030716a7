package config

import (
	"crypto/rand"
	"encoding/hex"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"github.com/eyepatch-3097/ds-chatbot/envx"
)

type Config struct {
	Environment string
	ServiceName string

	Port  string
	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OpenAIAPIKey string
	OpenAIModel  string

	GeoAPIBaseURL string

	EmailHost     string
	EmailPort     int
	EmailUser     string
	EmailPassword string
	EmailFrom     string

	LeadNotificationEmail string

	DashboardEmail     string
	DashboardPassword  string
	DashboardJWTSecret string

	EnableAutoMigration bool

	PublicRatePerMinute int

	StatsCacheTTLSec int

	LogLevel     string
	LogFormat    string
	LogAddSource bool
	LogColor     bool

	CORSAllowedOrigins []string
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return strings.Trim(v, "\"")
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.ToLower(getEnv(key, ""))
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func getEnvList(key string, fallback []string) []string {
	v := strings.TrimSpace(getEnv(key, ""))
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "dev-secret"
	}
	return hex.EncodeToString(b)
}

func requireSecret(key string) string {
	v := getEnv(key, "")
	if v != "" {
		return v
	}
	if strings.ToLower(getEnv("GO_ENV", "development")) == "production" {
		panic("missing required env: " + key)
	}
	return randomSecret()
}

func Load() Config {
	_ = envx.LoadDotEnvIfPresent(".env")

	environment := strings.ToLower(getEnv("GO_ENV", "development"))

	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnvInt("REDIS_PORT", 6379)

	return Config{
		Environment: environment,
		ServiceName: getEnv("SERVICE_NAME", "ds-chatbot"),

		Port:  getEnv("PORT", "8080"),
		DBURL: databaseURLFromEnv(),

		RedisAddr:     redisHost + ":" + strconv.Itoa(redisPort),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-5-nano"),

		GeoAPIBaseURL: getEnv("GEO_API_BASE_URL", "https://ipapi.co"),

		EmailHost:     getEnv("EMAIL_HOST", ""),
		EmailPort:     getEnvInt("EMAIL_PORT", 587),
		EmailUser:     getEnv("EMAIL_USER", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "crew@dotswitch.space"),

		LeadNotificationEmail: getEnv("LEAD_NOTIFICATION_EMAIL", ""),

		DashboardEmail:     getEnv("DASHBOARD_EMAIL", "admin@dotswitch.space"),
		DashboardPassword:  getEnv("DASHBOARD_PASSWORD", "change-me-dashboard-password"),
		DashboardJWTSecret: requireSecret("DASHBOARD_JWT_SECRET"),

		EnableAutoMigration: getEnvBool("AUTO_MIGRATE", false),

		PublicRatePerMinute: getEnvInt("PUBLIC_RATE_PER_MINUTE", 60),

		StatsCacheTTLSec: getEnvInt("STATS_CACHE_TTL_SEC", 60),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		LogAddSource: getEnvBool("LOG_ADD_SOURCE", false),
		LogColor:     getEnvBool("LOG_COLOR", true),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func databaseURLFromEnv() string {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnvInt("DB_PORT", 5432)
	dbName := getEnv("DB_NAME", "chatbot_db")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")

	if hasExplicitDBParts() {
		return buildDatabaseURL(dbHost, dbPort, dbName, dbUser, dbPass)
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return applyDefaultSSLMode(strings.Trim(v, "\""))
	}
	return buildDatabaseURL(dbHost, dbPort, dbName, dbUser, dbPass)
}

func buildDatabaseURL(host string, port int, dbName, user, pass string) string {
	u := &neturl.URL{
		Scheme: "postgres",
		User:   neturl.UserPassword(user, pass),
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + dbName,
	}
	q := u.Query()
	if isLocalHost(host) {
		q.Set("sslmode", "disable")
	} else {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func applyDefaultSSLMode(dbURL string) string {
	u, err := neturl.Parse(strings.TrimSpace(dbURL))
	if err != nil {
		return dbURL
	}
	q := u.Query()
	if q.Get("sslmode") != "" {
		return u.String()
	}
	if isLocalHost(u.Hostname()) {
		q.Set("sslmode", "disable")
	} else {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isLocalHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	return h == "" || h == "localhost" || h == "127.0.0.1" || h == "::1"
}

func hasExplicitDBParts() bool {
	return strings.TrimSpace(os.Getenv("DB_HOST")) != "" ||
		strings.TrimSpace(os.Getenv("DB_PORT")) != "" ||
		strings.TrimSpace(os.Getenv("DB_NAME")) != "" ||
		strings.TrimSpace(os.Getenv("DB_USER")) != "" ||
		strings.TrimSpace(os.Getenv("DB_PASSWORD")) != ""
}
