package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "TOPPINGS_FILE", "TOPPINGS_PER_PIZZA",
		"FRESH_GUESS_AFTER_SUBMIT", "SESSION_TTL_MINUTES", "NODE_ENV"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "5175" || c.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.ToppingsFile != "" || c.ToppingsPerPizza != 3 || c.FreshGuessAfterSubmit {
		t.Fatalf("unexpected game defaults: %+v", c)
	}
	if c.SessionTTL != 120*time.Minute || c.Production {
		t.Fatalf("unexpected session defaults: %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TOPPINGS_PER_PIZZA", "4")
	t.Setenv("FRESH_GUESS_AFTER_SUBMIT", "true")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("NODE_ENV", "production")
	c := FromEnv()
	if c.Port != "9000" || c.ToppingsPerPizza != 4 || !c.FreshGuessAfterSubmit {
		t.Fatalf("overrides ignored: %+v", c)
	}
	if c.SessionTTL != 5*time.Minute || !c.Production {
		t.Fatalf("overrides ignored: %+v", c)
	}
}

func TestFromEnvBadIntsFallBack(t *testing.T) {
	t.Setenv("TOPPINGS_PER_PIZZA", "three")
	t.Setenv("SESSION_TTL_MINUTES", "-1")
	c := FromEnv()
	if c.ToppingsPerPizza != 3 || c.SessionTTL != 120*time.Minute {
		t.Fatalf("bad ints not defaulted: %+v", c)
	}
}
