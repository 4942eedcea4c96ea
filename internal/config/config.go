package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr        string
	DBDSN           string
	JWTIssuer       string
	JWTSecret       string
	JWTTTL          time.Duration
	WebSocketOrigin string

	// Engine tunables. All optional, with production defaults.
	DriftInterval   time.Duration
	PressureWindow  time.Duration
	MaxDriftStepPct float64
	CollectWindow   time.Duration
	PassDelay       time.Duration
	ExpiryInterval  time.Duration
	MaxOrderAge     time.Duration
	ClearingWorkers int
	GateDrift       bool
	GateExpiry      bool

	StartingBalance      string
	AdminStartingBalance string
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.DBDSN = os.Getenv("DB_DSN")
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		missing = append(missing, "JWT_TTL")
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	if c.WebSocketOrigin == "" {
		missing = append(missing, "WS_ORIGIN")
	}

	var err error
	if c.DriftInterval, err = duration("ENGINE_DRIFT_INTERVAL", 30*time.Second); err != nil {
		return c, err
	}
	if c.PressureWindow, err = duration("ENGINE_PRESSURE_WINDOW", 30*time.Second); err != nil {
		return c, err
	}
	if c.CollectWindow, err = duration("ENGINE_COLLECT_WINDOW", 120*time.Second); err != nil {
		return c, err
	}
	if c.PassDelay, err = duration("ENGINE_PASS_DELAY", 5*time.Second); err != nil {
		return c, err
	}
	if c.ExpiryInterval, err = duration("ENGINE_EXPIRY_INTERVAL", 60*time.Second); err != nil {
		return c, err
	}
	if c.MaxOrderAge, err = duration("ENGINE_MAX_ORDER_AGE", 2*time.Minute); err != nil {
		return c, err
	}
	if c.MaxDriftStepPct, err = float("ENGINE_MAX_DRIFT_STEP", 0.02); err != nil {
		return c, err
	}
	if c.ClearingWorkers, err = integer("ENGINE_CLEARING_WORKERS", 4); err != nil {
		return c, err
	}
	if c.ClearingWorkers < 1 {
		return c, errors.New("ENGINE_CLEARING_WORKERS must be at least 1")
	}
	if c.GateDrift, err = boolean("ENGINE_GATE_DRIFT", false); err != nil {
		return c, err
	}
	if c.GateExpiry, err = boolean("ENGINE_GATE_EXPIRY", false); err != nil {
		return c, err
	}
	c.StartingBalance = os.Getenv("STARTING_BALANCE")
	if c.StartingBalance == "" {
		c.StartingBalance = "10000"
	}
	c.AdminStartingBalance = os.Getenv("ADMIN_STARTING_BALANCE")
	if c.AdminStartingBalance == "" {
		c.AdminStartingBalance = "1000000000"
	}
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + join(missing))
	}
	return c, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

func float(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func integer(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func boolean(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}

func join(items []string) string {
	if len(items) == 0 {
		return ""
	}
	out := items[0]
	for i := 1; i < len(items); i++ {
		out += "," + items[i]
	}
	return out
}
