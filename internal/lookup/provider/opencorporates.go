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

const openCorporatesBaseURL = "https://api.opencorporates.com"

// OpenCorporates resolves a number against the OpenCorporates companies
// search. There is no dedicated phone endpoint, so this is a best-effort text
// search for the E.164 number; the top company name wins.
type OpenCorporates struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// OpenCorporatesConfig configures the company registry adapter.
type OpenCorporatesConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewOpenCorporates creates the company registry adapter.
func NewOpenCorporates(cfg OpenCorporatesConfig, log *logger.Logger) *OpenCorporates {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openCorporatesBaseURL
	}

	return &OpenCorporates{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Name returns the provider identifier.
func (p *OpenCorporates) Name() string { return "opencorporates" }

// Source returns the source tag for attribution.
func (p *OpenCorporates) Source() Source { return SourceCompanyRegistry }

// Enabled reports whether the API token is configured.
func (p *OpenCorporates) Enabled() bool { return p.apiKey != "" }

type openCorporatesResponse struct {
	Results struct {
		Companies []struct {
			Company struct {
				Name string `json:"name"`
			} `json:"company"`
		} `json:"companies"`
	} `json:"results"`
}

// Resolve queries the companies search endpoint.
func (p *OpenCorporates) Resolve(ctx context.Context, num phone.Number) Result {
	params := url.Values{}
	params.Set("q", e164OrDigits(num))
	params.Set("api_token", p.apiKey)

	reqURL := fmt.Sprintf("%s/v0.4/companies/search?%s", p.baseURL, params.Encode())
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
		absorbed := apperr.Unavailable(fmt.Sprintf("opencorporates returned status %d", resp.StatusCode))
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	var decoded openCorporatesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		absorbed := apperr.Wrap(apperr.KindUnavailable, "opencorporates returned malformed payload", err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	companies := decoded.Results.Companies
	if len(companies) == 0 || companies[0].Company.Name == "" {
		return Unmatched(p.Source(), body, nil)
	}

	return Matched(p.Source(), companies[0].Company.Name, body)
}

var _ Provider = (*OpenCorporates)(nil)
