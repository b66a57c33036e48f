package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"phonefinder/platform/apperr"
	"phonefinder/platform/logger"
	"phonefinder/platform/phone"
)

const twilioBaseURL = "https://lookups.twilio.com"

// Twilio resolves a number through the Twilio Lookup caller-name API. Caller
// names are only available for some numbers and regions, so a response
// without one is an unmatched result.
type Twilio struct {
	baseURL    string
	accountSID string
	authToken  string
	httpClient *http.Client
	log        *logger.Logger
}

// TwilioConfig configures the caller-ID adapter.
type TwilioConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	Timeout    time.Duration
}

// NewTwilio creates the caller-ID adapter.
func NewTwilio(cfg TwilioConfig, log *logger.Logger) *Twilio {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = twilioBaseURL
	}

	return &Twilio{
		baseURL:    baseURL,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Name returns the provider identifier.
func (p *Twilio) Name() string { return "twilio" }

// Source returns the source tag for attribution.
func (p *Twilio) Source() Source { return SourceCallerID }

// Enabled reports whether both credentials are configured.
func (p *Twilio) Enabled() bool { return p.accountSID != "" && p.authToken != "" }

type twilioResponse struct {
	CallerName struct {
		CallerName string `json:"caller_name"`
	} `json:"caller_name"`
}

// Resolve queries the caller-name lookup endpoint.
func (p *Twilio) Resolve(ctx context.Context, num phone.Number) Result {
	reqURL := fmt.Sprintf("%s/v1/PhoneNumbers/%s?Type=caller-name", p.baseURL, url.PathEscape(e164OrDigits(num)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Unmatched(p.Source(), nil, apperr.Wrap(apperr.KindInternal, "create request", err))
	}
	req.SetBasicAuth(p.accountSID, p.authToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		absorbed := classifyTransportError(err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), nil, absorbed)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		absorbed := apperr.Unavailable(fmt.Sprintf("twilio returned status %d", resp.StatusCode))
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	var decoded twilioResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		absorbed := apperr.Wrap(apperr.KindUnavailable, "twilio returned malformed payload", err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	if decoded.CallerName.CallerName == "" {
		return Unmatched(p.Source(), body, nil)
	}

	return Matched(p.Source(), decoded.CallerName.CallerName, body)
}

var _ Provider = (*Twilio)(nil)
