package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration-valued settings
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, durations
// for timeouts and holds.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	RegistrationHoldTTL time.Duration // how long a pending registration keeps its seat
	ReaperInterval      time.Duration // how often expired holds are swept

	PaymentProvider string        // "sandbox" or "http"
	PaymentURL      string        // base URL of the payment provider (http provider only)
	PaymentAPIKey   string        // API key for the payment provider (http provider only)
	PaymentTimeout  time.Duration // per-charge timeout against the provider
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Tunables with
// sensible defaults use envDur/envStr so a bare .env still boots.
func Load() Config {
	cfg := Config{
		Env:    must("APP_ENV"),      // environment (dev/test/prod)
		Port:   must("APP_PORT"),     // port to bind the HTTP server
		DBUser: must("DB_USER"),      // database user
		DBPass: os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost: must("DB_HOST"),      // database host
		DBPort: must("DB_PORT"),      // database port
		DBName: must("DB_NAME"),      // database name

		RegistrationHoldTTL: envDur("REGISTRATION_HOLD_TTL", 15*time.Minute),
		ReaperInterval:      envDur("REAPER_INTERVAL", time.Minute),

		PaymentProvider: envStr("PAYMENT_PROVIDER", "sandbox"),
		PaymentURL:      os.Getenv("PAYMENT_URL"),
		PaymentAPIKey:   os.Getenv("PAYMENT_API_KEY"),
		PaymentTimeout:  envDur("PAYMENT_TIMEOUT", 10*time.Second),
	}
	if cfg.PaymentProvider == "http" && cfg.PaymentURL == "" {
		log.Fatalf("PAYMENT_PROVIDER=http requires PAYMENT_URL")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envStr returns the value of an optional environment variable, or the
// given default when unset or empty.
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envBool parses an optional boolean-valued environment variable.
// Unrecognized values fall back to the default.
func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

// envInt parses an optional integer-valued environment variable,
// falling back to the default when unset or malformed.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

// envDur parses an optional duration-valued environment variable (e.g.
// "15m", "90s"). An unset variable yields the default; a malformed one
// is fatal so a typo never silently shortens a hold.
func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}
