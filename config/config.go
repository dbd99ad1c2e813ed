// Package config collects the settings shared by the globe app and the score
// service. Values come from the environment, optionally seeded from a .env
// file, and may then be overridden by command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Score storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds every tunable of both binaries.
type Config struct {
	// Globe window.
	Width    int
	Height   int
	Title    string
	DataPath string
	Stars    int
	ShowFPS  bool
	Debug    bool

	// Score client.
	ScoreURL string
	UserID   string
	Username string

	// Score service.
	Port      string
	Backend   string
	RedisAddr string
	RedisPass string
	RedisDB   int
	PGDSN     string
	GeoIPDB   string

	// Test tooling.
	Script        string
	ScreenshotDir string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Width:         1024,
		Height:        768,
		Title:         "Globe",
		Stars:         200,
		UserID:        "local",
		Username:      "player",
		Port:          "8080",
		Backend:       BackendMemory,
		RedisAddr:     "127.0.0.1:6379",
		ScreenshotDir: "screenshots",
	}
}

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Empty values keep the
// defaults. Malformed numbers are reported rather than ignored.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Default()
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	var errs []string
	num := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s=%q", key, v))
			return
		}
		*dst = n
	}
	boolean := func(key string, dst *bool) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s=%q", key, v))
			return
		}
		*dst = b
	}

	num("GLOBE_WIDTH", &c.Width)
	num("GLOBE_HEIGHT", &c.Height)
	str("GLOBE_TITLE", &c.Title)
	str("GLOBE_DATA", &c.DataPath)
	num("GLOBE_STARS", &c.Stars)
	boolean("GLOBE_FPS", &c.ShowFPS)
	boolean("GLOBE_DEBUG", &c.Debug)
	str("GLOBE_SCORE_URL", &c.ScoreURL)
	str("GLOBE_USER", &c.UserID)
	str("GLOBE_USERNAME", &c.Username)
	str("PORT", &c.Port)
	str("SCORE_BACKEND", &c.Backend)
	str("PG_DSN", &c.PGDSN)
	str("GEOIP_DB", &c.GeoIPDB)
	str("REDIS_PASS", &c.RedisPass)
	num("REDIS_DB", &c.RedisDB)

	host, port := strings.TrimSpace(getenv("REDIS_HOST")), strings.TrimSpace(getenv("REDIS_PORT"))
	if host != "" || port != "" {
		if host == "" {
			host = "127.0.0.1"
		}
		if port == "" {
			port = "6379"
		}
		c.RedisAddr = host + ":" + port
	}

	if len(errs) > 0 {
		return c, fmt.Errorf("config: invalid values: %s", strings.Join(errs, ", "))
	}
	return c, c.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("config: SCORE_BACKEND=postgres requires PG_DSN")
		}
	default:
		return fmt.Errorf("config: unknown score backend %q", c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d", c.Width, c.Height)
	}
	return nil
}

// GlobeFlags registers the globe app's flags on fs, defaulting to the
// current values so that flags override the environment.
func (c *Config) GlobeFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "window width")
	fs.IntVar(&c.Height, "height", c.Height, "window height")
	fs.StringVar(&c.DataPath, "data", c.DataPath, "GeoJSON country file (built-in set when empty)")
	fs.StringVar(&c.ScoreURL, "score-url", c.ScoreURL, "score service base URL (scores stay local when empty)")
	fs.StringVar(&c.UserID, "user", c.UserID, "user id sent to the score service")
	fs.BoolVar(&c.ShowFPS, "fps", c.ShowFPS, "show the FPS widget")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "log render stats every frame")
	fs.StringVar(&c.Script, "script", c.Script, "JSON test script to run")
	fs.StringVar(&c.ScreenshotDir, "shots", c.ScreenshotDir, "directory for screenshots")
}

// ServerFlags registers the score service's flags on fs.
func (c *Config) ServerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "listen port")
	fs.StringVar(&c.Backend, "backend", c.Backend, "score backend: memory, redis or postgres")
	fs.StringVar(&c.GeoIPDB, "geoip", c.GeoIPDB, "GeoLite2 country database (locate disabled when empty)")
}
