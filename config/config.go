package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Extract   ExtractConfig
	Assets    AssetsConfig
	Styles    StylesConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// ExtractConfig controls the brand extraction run.
type ExtractConfig struct {
	// DefaultTimeout is the per-run deadline.
	DefaultTimeout time.Duration // default: 90s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 180s

	// SettleDelay is the pause before each verification pass. Challenge and
	// consent UI often appears only after a delay following initial paint.
	SettleDelay time.Duration // default: 1200ms

	// ConsentRounds is the max number of consent-dismissal passes per
	// verification cycle. Banners can chain (cookie banner → preferences).
	ConsentRounds int // default: 4

	// WorkDir is where per-run assets and diagnostics are written.
	WorkDir string // default: os.TempDir()/brandlens
}

// AssetsConfig controls asset discovery and image acquisition.
type AssetsConfig struct {
	// MaxCandidates caps the ranked image candidate list.
	MaxCandidates int // default: 40

	// MaxDownloads caps how many candidates are actually fetched.
	MaxDownloads int // default: 8

	// DownloadTimeout is the per-image fetch deadline.
	DownloadTimeout time.Duration // default: 15s

	// MaxBodyBytes caps a single download body.
	MaxBodyBytes int64 // default: 15 MB

	// OriginRPS paces downloads against a single origin.
	OriginRPS float64 // default: 4
}

// StylesConfig controls computed-style sampling and reduction.
type StylesConfig struct {
	// SampleLimit is the max number of visible elements sampled.
	SampleLimit int // default: 3000

	// TopColors is the per-channel top-K before normalization.
	TopColors int // default: 16

	// TopFonts is the top-K for typography channels.
	TopFonts int // default: 12
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the snapshot cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached snapshots.
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("BRANDLENS_HOST", "0.0.0.0"),
			Port: envIntOr("BRANDLENS_PORT", 8080),
			Mode: envOr("BRANDLENS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("BRANDLENS_HEADLESS", true),
			MaxPages:     envIntOr("BRANDLENS_MAX_PAGES", 4),
			DefaultProxy: os.Getenv("BRANDLENS_PROXY"),
			NoSandbox:    envBoolOr("BRANDLENS_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("BRANDLENS_BROWSER_BIN"),
		},
		Extract: ExtractConfig{
			DefaultTimeout: envDurationOr("BRANDLENS_DEFAULT_TIMEOUT", 90*time.Second),
			MaxTimeout:     envDurationOr("BRANDLENS_MAX_TIMEOUT", 180*time.Second),
			SettleDelay:    envDurationOr("BRANDLENS_SETTLE_DELAY", 1200*time.Millisecond),
			ConsentRounds:  envIntOr("BRANDLENS_CONSENT_ROUNDS", 4),
			WorkDir:        envOr("BRANDLENS_WORK_DIR", filepath.Join(os.TempDir(), "brandlens")),
		},
		Assets: AssetsConfig{
			MaxCandidates:   envIntOr("BRANDLENS_MAX_CANDIDATES", 40),
			MaxDownloads:    envIntOr("BRANDLENS_MAX_DOWNLOADS", 8),
			DownloadTimeout: envDurationOr("BRANDLENS_DOWNLOAD_TIMEOUT", 15*time.Second),
			MaxBodyBytes:    int64(envIntOr("BRANDLENS_MAX_BODY_BYTES", 15*1024*1024)),
			OriginRPS:       envFloatOr("BRANDLENS_ORIGIN_RPS", 4.0),
		},
		Styles: StylesConfig{
			SampleLimit: envIntOr("BRANDLENS_SAMPLE_LIMIT", 3000),
			TopColors:   envIntOr("BRANDLENS_TOP_COLORS", 16),
			TopFonts:    envIntOr("BRANDLENS_TOP_FONTS", 12),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("BRANDLENS_AUTH_ENABLED", true),
			APIKeys: envSliceOr("BRANDLENS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("BRANDLENS_RATE_RPS", 2.0),
			Burst:             envIntOr("BRANDLENS_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("BRANDLENS_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("BRANDLENS_LOG_LEVEL", "info"),
			Format: envOr("BRANDLENS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
