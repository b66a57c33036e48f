// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// ContactsConfig provides settings for the local contact index.
type ContactsConfig interface {
	GetContactsPath() string
	GetDefaultRegion() string
}

// RegistryConfig provides settings for the OpenCorporates company registry.
type RegistryConfig interface {
	GetOpenCorporatesAPIKey() string
	IsRegistryEnabled() bool
}

// DirectoryConfig provides settings for the Yelp business directory.
type DirectoryConfig interface {
	GetYelpAPIKey() string
	IsDirectoryEnabled() bool
}

// PlacesConfig provides settings for the Google Places directory lookup.
type PlacesConfig interface {
	GetGoogleMapsAPIKey() string
	IsPlacesEnabled() bool
}

// CallerIDConfig provides settings for the Twilio caller-name lookup.
type CallerIDConfig interface {
	GetTwilioAccountSID() string
	GetTwilioAuthToken() string
	IsCallerIDEnabled() bool
}

// HintConfig provides settings for the NumVerify hint lookup.
type HintConfig interface {
	GetNumVerifyAPIKey() string
	IsHintEnabled() bool
}

// ProviderConfig combines the credential state of every external provider
// together with the shared per-call timeout budget. It is read once at
// startup and never mutated during a resolution.
type ProviderConfig interface {
	RegistryConfig
	DirectoryConfig
	PlacesConfig
	CallerIDConfig
	HintConfig
	GetProviderTimeout() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	ContactsPath         string
	DefaultRegion        string
	ProviderTimeout      time.Duration
	OpenCorporatesAPIKey string
	YelpAPIKey           string
	GoogleMapsAPIKey     string
	TwilioAccountSID     string
	TwilioAuthToken      string
	NumVerifyAPIKey      string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// ContactsConfig implementation
func (c *Config) GetContactsPath() string  { return c.ContactsPath }
func (c *Config) GetDefaultRegion() string { return c.DefaultRegion }

// RegistryConfig implementation
func (c *Config) GetOpenCorporatesAPIKey() string { return c.OpenCorporatesAPIKey }
func (c *Config) IsRegistryEnabled() bool         { return c.OpenCorporatesAPIKey != "" }

// DirectoryConfig implementation
func (c *Config) GetYelpAPIKey() string    { return c.YelpAPIKey }
func (c *Config) IsDirectoryEnabled() bool { return c.YelpAPIKey != "" }

// PlacesConfig implementation
func (c *Config) GetGoogleMapsAPIKey() string { return c.GoogleMapsAPIKey }
func (c *Config) IsPlacesEnabled() bool       { return c.GoogleMapsAPIKey != "" }

// CallerIDConfig implementation
func (c *Config) GetTwilioAccountSID() string { return c.TwilioAccountSID }
func (c *Config) GetTwilioAuthToken() string  { return c.TwilioAuthToken }
func (c *Config) IsCallerIDEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

// HintConfig implementation
func (c *Config) GetNumVerifyAPIKey() string { return c.NumVerifyAPIKey }
func (c *Config) IsHintEnabled() bool        { return c.NumVerifyAPIKey != "" }

// ProviderConfig implementation
func (c *Config) GetProviderTimeout() time.Duration { return c.ProviderTimeout }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		ContactsPath:         getEnv("CONTACTS_PATH", "sample_contacts.csv"),
		DefaultRegion:        strings.ToUpper(getEnv("DEFAULT_REGION", "US")),
		ProviderTimeout:      mustDuration(getEnv("PROVIDER_TIMEOUT", "5s")),
		OpenCorporatesAPIKey: getEnv("OPENCORPORATES_API_KEY", ""),
		YelpAPIKey:           getEnv("YELP_API_KEY", ""),
		GoogleMapsAPIKey:     getEnv("GOOGLE_MAPS_API_KEY", ""),
		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		NumVerifyAPIKey:      getEnv("NUMVERIFY_API_KEY", ""),
	}

	if cfg.ContactsPath == "" {
		return nil, fmt.Errorf("CONTACTS_PATH must not be empty")
	}
	if len(cfg.DefaultRegion) != 2 {
		return nil, fmt.Errorf("DEFAULT_REGION must be a two-letter ISO region code")
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be a positive duration")
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN is required when TWILIO_ACCOUNT_SID is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
