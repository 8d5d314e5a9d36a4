package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/teemow/calendar-mcp/internal/google"
)

// Environment variable names.
const (
	EnvClientID        = "GOOGLE_CLIENT_ID"
	EnvClientSecret    = "GOOGLE_CLIENT_SECRET"
	EnvRefreshToken    = "GOOGLE_REFRESH_TOKEN"
	EnvRedirectURL     = "GOOGLE_REDIRECT_URL"
	EnvDefaultTimeZone = "DEFAULT_TIMEZONE"
	EnvTransport       = "MCP_TRANSPORT"
	EnvHTTPAddr        = "MCP_HTTP_ADDR"
	EnvMetricsEnabled  = "METRICS_ENABLED"
	EnvMetricsAddr     = "METRICS_ADDR"
	EnvDebug           = "DEBUG"
)

// Transport names.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// ErrMissingCredentials is returned when the Google OAuth client or refresh
// token is not configured.
var ErrMissingCredentials = errors.New("missing Google credentials")

// flagKeys maps cobra flag names to the environment variables they override.
var flagKeys = map[string]string{
	"transport":        EnvTransport,
	"http-addr":        EnvHTTPAddr,
	"metrics-enabled":  EnvMetricsEnabled,
	"metrics-addr":     EnvMetricsAddr,
	"debug":            EnvDebug,
	"default-timezone": EnvDefaultTimeZone,
}

// Config is the resolved process configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string

	// DefaultTimeZone is empty when unset. The payload builder then falls
	// back to datetime.FallbackTimeZone.
	DefaultTimeZone string

	Transport      string
	HTTPAddr       string
	MetricsEnabled bool
	MetricsAddr    string
	Debug          bool
}

// Load reads .env from the working directory, then resolves every setting
// from flags, the environment and defaults, in that order of precedence.
// Variables already present in the environment are never overwritten by .env.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(flags)
}

func load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(EnvRedirectURL, google.DefaultRedirectURL)
	v.SetDefault(EnvTransport, TransportStdio)
	v.SetDefault(EnvHTTPAddr, ":8080")
	v.SetDefault(EnvMetricsEnabled, true)
	v.SetDefault(EnvMetricsAddr, ":9090")
	v.SetDefault(EnvDebug, false)

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{
		ClientID:        strings.TrimSpace(v.GetString(EnvClientID)),
		ClientSecret:    strings.TrimSpace(v.GetString(EnvClientSecret)),
		RefreshToken:    strings.TrimSpace(v.GetString(EnvRefreshToken)),
		RedirectURL:     v.GetString(EnvRedirectURL),
		DefaultTimeZone: strings.TrimSpace(v.GetString(EnvDefaultTimeZone)),
		Transport:       v.GetString(EnvTransport),
		HTTPAddr:        v.GetString(EnvHTTPAddr),
		MetricsEnabled:  v.GetBool(EnvMetricsEnabled),
		MetricsAddr:     v.GetString(EnvMetricsAddr),
		Debug:           v.GetBool(EnvDebug),
	}

	switch cfg.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return nil, fmt.Errorf("unsupported transport %q, must be %q or %q", cfg.Transport, TransportStdio, TransportStreamableHTTP)
	}

	return cfg, nil
}

// ValidateClient checks the OAuth client credentials needed by the consent flow.
func (c *Config) ValidateClient() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must be set", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks everything serve needs before it registers any tool.
// When only the refresh token is missing the error carries the consent URL.
func (c *Config) Validate() error {
	if err := c.ValidateClient(); err != nil {
		return err
	}
	if c.RefreshToken == "" {
		authURL := google.AuthURL(c.OAuthConfig(), "")
		return fmt.Errorf("%w: %s must be set\n\nAuthorize the application at:\n%s\n\nor run `calendar-mcp auth`, then add GOOGLE_REFRESH_TOKEN=... to your .env file",
			ErrMissingCredentials, EnvRefreshToken, authURL)
	}
	return nil
}

// OAuthConfig returns the OAuth2 client configuration for these credentials.
func (c *Config) OAuthConfig() *oauth2.Config {
	return google.NewOAuthConfig(c.ClientID, c.ClientSecret, c.RedirectURL)
}
