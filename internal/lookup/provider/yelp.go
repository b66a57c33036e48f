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

const yelpBaseURL = "https://api.yelp.com"

// Yelp resolves a number through the Yelp Fusion phone search. The top
// business name wins; an empty business list is an unmatched result, not an
// error.
type Yelp struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// YelpConfig configures the business directory adapter.
type YelpConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewYelp creates the business directory adapter.
func NewYelp(cfg YelpConfig, log *logger.Logger) *Yelp {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = yelpBaseURL
	}

	return &Yelp{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Name returns the provider identifier.
func (p *Yelp) Name() string { return "yelp" }

// Source returns the source tag for attribution.
func (p *Yelp) Source() Source { return SourceBusinessDirectory }

// Enabled reports whether the API key is configured.
func (p *Yelp) Enabled() bool { return p.apiKey != "" }

type yelpResponse struct {
	Businesses []struct {
		Name string `json:"name"`
	} `json:"businesses"`
}

// Resolve queries the phone search endpoint.
func (p *Yelp) Resolve(ctx context.Context, num phone.Number) Result {
	params := url.Values{}
	params.Set("phone", e164OrDigits(num))

	reqURL := fmt.Sprintf("%s/v3/businesses/search/phone?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Unmatched(p.Source(), nil, apperr.Wrap(apperr.KindInternal, "create request", err))
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		absorbed := classifyTransportError(err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), nil, absorbed)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		absorbed := apperr.Unavailable(fmt.Sprintf("yelp returned status %d", resp.StatusCode))
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	var decoded yelpResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		absorbed := apperr.Wrap(apperr.KindUnavailable, "yelp returned malformed payload", err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	if len(decoded.Businesses) == 0 || decoded.Businesses[0].Name == "" {
		return Unmatched(p.Source(), body, nil)
	}

	return Matched(p.Source(), decoded.Businesses[0].Name, body)
}

var _ Provider = (*Yelp)(nil)
