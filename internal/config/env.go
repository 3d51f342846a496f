package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "TECHPILLS_"

// LoadEnv reads a .env file if one exists. Variables already set in the
// process environment win.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("no .env file loaded", "component", "config", "error", err)
	}
}

// GetEnv returns the variable or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ApplyEnv overlays TECHPILLS_* variables onto cfg. Unparseable values
// are logged and ignored.
func (c *Config) ApplyEnv() {
	c.Log.Level = GetEnv(envPrefix+"LOG_LEVEL", c.Log.Level)
	if v, ok := envBool("LOG_JSON"); ok {
		c.Log.JSON = v
	}
	c.Server.Addr = GetEnv(envPrefix+"ADDR", c.Server.Addr)
	if v := GetEnv(envPrefix+"ALLOWED_ORIGINS", ""); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	c.Server.StatsDB = GetEnv(envPrefix+"STATS_DB", c.Server.StatsDB)
	c.Server.StatsSalt = GetEnv(envPrefix+"STATS_SALT", c.Server.StatsSalt)
	if v := GetEnv(envPrefix+"MOVE_RATE", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Server.MoveRate = f
		} else {
			slog.Warn("ignoring invalid env value", "component", "config", "key", envPrefix+"MOVE_RATE", "value", v)
		}
	}
}

func envBool(name string) (bool, bool) {
	v := GetEnv(envPrefix+name, "")
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring invalid env value", "component", "config", "key", envPrefix+name, "value", v)
		return false, false
	}
	return b, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
