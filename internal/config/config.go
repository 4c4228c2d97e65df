package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                  string
	LogLevel              string
	LogFormat             string // "json" | "console"
	ClientOrigin          string
	ToppingsFile          string
	ToppingsPerPizza      int
	FreshGuessAfterSubmit bool
	SessionSecret         string
	SessionTTL            time.Duration
	DailySalt             string
	Production            bool
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "5175")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.LogFormat = getenv("LOG_FORMAT", "json")
	c.ClientOrigin = getenv("CLIENT_ORIGIN", "http://localhost:5173")
	c.ToppingsFile = os.Getenv("TOPPINGS_FILE")
	c.ToppingsPerPizza = getenvInt("TOPPINGS_PER_PIZZA", 3)
	c.FreshGuessAfterSubmit = getenv("FRESH_GUESS_AFTER_SUBMIT", "false") == "true"
	c.SessionSecret = getenv("SESSION_SECRET", "dev_secret_change_me")
	c.SessionTTL = time.Duration(getenvInt("SESSION_TTL_MINUTES", 120)) * time.Minute
	c.DailySalt = getenv("DAILY_SALT", "local_dev_salt")
	c.Production = os.Getenv("NODE_ENV") == "production"
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvInt falls back to def for unset, malformed or non-positive values.
func getenvInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
