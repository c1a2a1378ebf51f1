package client

import (
	"net/http"
	"time"
)

// Config holds configuration for the live-manifest resolver client.
type Config struct {
	// HTTPClient is used by the metadata and raw-markup strategies.
	// If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Cookies is the optional authentication material, injected once per
	// automation-session creation. Treated as opaque pre-validated bytes.
	Cookies []*http.Cookie

	// MetadataTimeout bounds one structured player-endpoint attempt.
	// Default 10s.
	MetadataTimeout time.Duration

	// RenderTimeout bounds the rendered-page navigation plus the wait for
	// the client-side player state. Default 45s.
	RenderTimeout time.Duration

	// FetchTimeout bounds the raw watch-page fetch. Default 10s.
	FetchTimeout time.Duration

	// RequestCeiling is the hard per-request bound across all strategies.
	// If zero it is derived from the strategy bounds plus margin.
	RequestCeiling time.Duration

	// FailureThreshold is the consecutive-fatal count that rotates the
	// automation session. Default 2.
	FailureThreshold int

	// BrowserPath overrides browser binary discovery for the rendered-page
	// strategy. Empty probes well-known names.
	BrowserPath string

	// Headless controls browser visibility. Default true; set HeadlessOff
	// to disable for local debugging.
	HeadlessOff bool

	// UserAgent overrides the desktop fingerprint used by the browser and
	// the raw-markup fetch.
	UserAgent string

	// Logger receives warnings and progress. If nil, logging is disabled.
	Logger Logger
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"

func (c Config) withDefaults() Config {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.MetadataTimeout <= 0 {
		c.MetadataTimeout = 10 * time.Second
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 45 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.RequestCeiling <= 0 {
		c.RequestCeiling = c.MetadataTimeout + c.RenderTimeout + c.FetchTimeout + 15*time.Second
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 2
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
	return c
}
