package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets variables for the duration of the test. t.Setenv registers
// the restore; the unset makes Load see a truly absent variable.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "HTTP_ADDR", "CONTACTS_PATH", "DEFAULT_REGION", "PROVIDER_TIMEOUT",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.ContactsPath != "sample_contacts.csv" {
		t.Fatalf("expected default contacts path, got %s", cfg.ContactsPath)
	}
	if cfg.DefaultRegion != "US" {
		t.Fatalf("expected default region US, got %s", cfg.DefaultRegion)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Fatalf("expected default provider timeout 5s, got %s", cfg.ProviderTimeout)
	}
}

func TestProviderEnablementFollowsCredentials(t *testing.T) {
	cfg := &Config{}
	if cfg.IsRegistryEnabled() || cfg.IsDirectoryEnabled() || cfg.IsPlacesEnabled() ||
		cfg.IsCallerIDEnabled() || cfg.IsHintEnabled() {
		t.Fatal("providers without credentials must be disabled")
	}

	cfg.OpenCorporatesAPIKey = "token"
	cfg.YelpAPIKey = "key"
	cfg.GoogleMapsAPIKey = "key"
	cfg.NumVerifyAPIKey = "key"
	if !cfg.IsRegistryEnabled() || !cfg.IsDirectoryEnabled() || !cfg.IsPlacesEnabled() || !cfg.IsHintEnabled() {
		t.Fatal("providers with credentials must be enabled")
	}

	cfg.TwilioAccountSID = "sid"
	if cfg.IsCallerIDEnabled() {
		t.Fatal("caller ID requires both SID and token")
	}
	cfg.TwilioAuthToken = "token"
	if !cfg.IsCallerIDEnabled() {
		t.Fatal("caller ID with both credentials must be enabled")
	}
}

func TestLoadRejectsBadRegion(t *testing.T) {
	clearEnv(t, "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN")
	t.Setenv("DEFAULT_REGION", "USA")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for three-letter region code")
	}
}

func TestLoadRejectsHalfTwilioCredentials(t *testing.T) {
	clearEnv(t, "TWILIO_AUTH_TOKEN")
	t.Setenv("TWILIO_ACCOUNT_SID", "sid")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when SID is set without a token")
	}
}
