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

const googlePlacesBaseURL = "https://maps.googleapis.com"

// GooglePlaces resolves a number through the Places find-place-from-text
// search with a phonenumber input. It is the second business directory source
// and runs after Yelp; the top candidate name wins.
type GooglePlaces struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// GooglePlacesConfig configures the Places directory adapter.
type GooglePlacesConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewGooglePlaces creates the Places directory adapter.
func NewGooglePlaces(cfg GooglePlacesConfig, log *logger.Logger) *GooglePlaces {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = googlePlacesBaseURL
	}

	return &GooglePlaces{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Name returns the provider identifier.
func (p *GooglePlaces) Name() string { return "googleplaces" }

// Source returns the source tag for attribution.
func (p *GooglePlaces) Source() Source { return SourceBusinessDirectory }

// Enabled reports whether the API key is configured.
func (p *GooglePlaces) Enabled() bool { return p.apiKey != "" }

type googlePlacesResponse struct {
	Candidates []struct {
		Name string `json:"name"`
	} `json:"candidates"`
}

// Resolve queries the find-place-from-text endpoint.
func (p *GooglePlaces) Resolve(ctx context.Context, num phone.Number) Result {
	params := url.Values{}
	params.Set("input", e164OrDigits(num))
	params.Set("inputtype", "phonenumber")
	params.Set("fields", "name,formatted_phone_number,place_id,business_status")
	params.Set("key", p.apiKey)

	reqURL := fmt.Sprintf("%s/maps/api/place/findplacefromtext/json?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Unmatched(p.Source(), nil, apperr.Wrap(apperr.KindInternal, "create request", err))
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		absorbed := classifyTransportError(err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), nil, absorbed)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		absorbed := apperr.Unavailable(fmt.Sprintf("googleplaces returned status %d", resp.StatusCode))
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	var decoded googlePlacesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		absorbed := apperr.Wrap(apperr.KindUnavailable, "googleplaces returned malformed payload", err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	if len(decoded.Candidates) == 0 || decoded.Candidates[0].Name == "" {
		return Unmatched(p.Source(), body, nil)
	}

	return Matched(p.Source(), decoded.Candidates[0].Name, body)
}

var _ Provider = (*GooglePlaces)(nil)
