package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, sourced from the environment. A
// .env file, when present, is loaded by the entrypoint before this runs.
type Config struct {
	// Port the HTTP front end listens on.
	Port string
	// CookiesBlob is a Netscape cookies.txt export passed inline.
	CookiesBlob string
	// CookiesFile is a path to a cookies.txt export, used when the blob
	// is empty.
	CookiesFile string
	// BrowserPath overrides browser binary discovery.
	BrowserPath string
	// HeadlessOff disables headless mode for local debugging.
	HeadlessOff bool

	MetadataTimeout  time.Duration
	RenderTimeout    time.Duration
	FetchTimeout     time.Duration
	RequestCeiling   time.Duration
	FailureThreshold int
}

// Load reads configuration from the environment, applying defaults that
// match the original deployment (port 8080, generous render bounds).
func Load() (Config, error) {
	cfg := Config{
		Port:        envOr("PORT", "8080"),
		CookiesBlob: os.Getenv("COOKIES"),
		CookiesFile: os.Getenv("COOKIES_FILE"),
		BrowserPath: os.Getenv("BROWSER_PATH"),
	}

	var err error
	if cfg.HeadlessOff, err = envBool("HEADLESS_OFF", false); err != nil {
		return Config{}, err
	}
	if cfg.MetadataTimeout, err = envDuration("METADATA_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RenderTimeout, err = envDuration("RENDER_TIMEOUT", 45*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = envDuration("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RequestCeiling, err = envDuration("REQUEST_CEILING", 0); err != nil {
		return Config{}, err
	}
	if cfg.FailureThreshold, err = envInt("FAILURE_THRESHOLD", 2); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
