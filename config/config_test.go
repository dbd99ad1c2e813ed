package config

import (
	"flag"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != Default() {
		t.Errorf("got %+v, want defaults", c)
	}
}

func TestFromEnv_Values(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{
		"GLOBE_WIDTH":     "1280",
		"GLOBE_HEIGHT":    " 720 ",
		"GLOBE_TITLE":     "World",
		"GLOBE_DATA":      "countries.geojson",
		"GLOBE_STARS":     "50",
		"GLOBE_FPS":       "true",
		"GLOBE_SCORE_URL": "http://localhost:9000",
		"GLOBE_USER":      "u1",
		"PORT":            "9000",
		"SCORE_BACKEND":   "redis",
		"REDIS_HOST":      "cache",
		"REDIS_PASS":      "secret",
		"REDIS_DB":        "2",
		"GEOIP_DB":        "GeoLite2-Country.mmdb",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Width != 1280 || c.Height != 720 || c.Title != "World" || c.Stars != 50 || !c.ShowFPS {
		t.Errorf("window = %+v", c)
	}
	if c.DataPath != "countries.geojson" || c.ScoreURL != "http://localhost:9000" || c.UserID != "u1" {
		t.Errorf("client = %+v", c)
	}
	if c.Backend != BackendRedis || c.RedisAddr != "cache:6379" || c.RedisPass != "secret" || c.RedisDB != 2 {
		t.Errorf("redis = %+v", c)
	}
	if c.Port != "9000" || c.GeoIPDB != "GeoLite2-Country.mmdb" {
		t.Errorf("server = %+v", c)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad width":        {"GLOBE_WIDTH": "wide"},
		"negative stars":   {"GLOBE_STARS": "-1"},
		"bad bool":         {"GLOBE_FPS": "sometimes"},
		"unknown backend":  {"SCORE_BACKEND": "mongo"},
		"postgres no dsn":  {"SCORE_BACKEND": "postgres"},
		"zero window size": {"GLOBE_WIDTH": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(envMap(env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFromEnv_ErrorNamesKeys(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"GLOBE_WIDTH": "x", "REDIS_DB": "y"}))
	if err == nil || !strings.Contains(err.Error(), "GLOBE_WIDTH") || !strings.Contains(err.Error(), "REDIS_DB") {
		t.Errorf("err = %v", err)
	}
}

func TestFromEnv_RedisPortOnly(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{"REDIS_PORT": "6380"}))
	if err != nil {
		t.Fatal(err)
	}
	if c.RedisAddr != "127.0.0.1:6380" {
		t.Errorf("RedisAddr = %q", c.RedisAddr)
	}
}

func TestGlobeFlags_Override(t *testing.T) {
	c := Default()
	c.DataPath = "from-env.geojson"
	fs := flag.NewFlagSet("globe", flag.ContinueOnError)
	c.GlobeFlags(fs)
	if err := fs.Parse([]string{"-width", "640", "-script", "smoke.json", "-shots", "out"}); err != nil {
		t.Fatal(err)
	}
	if c.Width != 640 || c.Script != "smoke.json" || c.ScreenshotDir != "out" {
		t.Errorf("got %+v", c)
	}
	if c.DataPath != "from-env.geojson" {
		t.Error("unset flag should keep the environment value")
	}
}

func TestServerFlags_Override(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("scored", flag.ContinueOnError)
	c.ServerFlags(fs)
	if err := fs.Parse([]string{"-port", "7000", "-backend", "redis"}); err != nil {
		t.Fatal(err)
	}
	if c.Port != "7000" || c.Backend != BackendRedis {
		t.Errorf("got %+v", c)
	}
}
