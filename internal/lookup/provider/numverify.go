package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"phonefinder/platform/apperr"
	"phonefinder/platform/logger"
	"phonefinder/platform/phone"
)

const numVerifyBaseURL = "http://apilayer.net"

// NumVerify resolves a number through the NumVerify validation API. It never
// returns a person's name; the "name" it reports is a carrier/line-type/
// country hint string, which is why the chain ranks it last.
type NumVerify struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NumVerifyConfig configures the hint adapter.
type NumVerifyConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewNumVerify creates the hint adapter.
func NewNumVerify(cfg NumVerifyConfig, log *logger.Logger) *NumVerify {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = numVerifyBaseURL
	}

	return &NumVerify{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Name returns the provider identifier.
func (p *NumVerify) Name() string { return "numverify" }

// Source returns the source tag for attribution.
func (p *NumVerify) Source() Source { return SourceHint }

// Enabled reports whether the access key is configured.
func (p *NumVerify) Enabled() bool { return p.apiKey != "" }

type numVerifyResponse struct {
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
	CountryName string `json:"country_name"`
}

// Resolve queries the validation endpoint and composes a hint from whatever
// fields the response carries. No fields means no match.
func (p *NumVerify) Resolve(ctx context.Context, num phone.Number) Result {
	params := url.Values{}
	params.Set("access_key", p.apiKey)
	params.Set("number", e164OrDigits(num))

	reqURL := fmt.Sprintf("%s/api/validate?%s", p.baseURL, params.Encode())
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
		absorbed := apperr.Unavailable(fmt.Sprintf("numverify returned status %d", resp.StatusCode))
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	var decoded numVerifyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		absorbed := apperr.Wrap(apperr.KindUnavailable, "numverify returned malformed payload", err)
		p.log.ProviderError(p.Name(), absorbed)
		return Unmatched(p.Source(), body, absorbed)
	}

	hints := make([]string, 0, 3)
	if decoded.Carrier != "" {
		hints = append(hints, "carrier="+decoded.Carrier)
	}
	if decoded.LineType != "" {
		hints = append(hints, "line_type="+decoded.LineType)
	}
	if decoded.CountryName != "" {
		hints = append(hints, "country="+decoded.CountryName)
	}
	if len(hints) == 0 {
		return Unmatched(p.Source(), body, nil)
	}

	return Matched(p.Source(), strings.Join(hints, "; "), body)
}

var _ Provider = (*NumVerify)(nil)
