// Package transport defines the request/response DTOs for the lookup module.
package transport

import (
	"phonefinder/internal/lookup/service"
	"phonefinder/platform/phone"
)

// LookupRequest is the body of POST /api/v1/lookup and the query surface of
// GET /api/v1/lookup.
type LookupRequest struct {
	Number    string `json:"number" form:"number" validate:"required"`
	Region    string `json:"region" form:"region" validate:"omitempty,alpha,len=2"`
	Provider  string `json:"provider" form:"provider" validate:"omitempty,oneof=opencorporates company_registry yelp googleplaces business_directory twilio caller_id numverify hint"`
	SkipLocal bool   `json:"skip_local" form:"skip_local"`
	Verbose   bool   `json:"verbose" form:"verbose"`
}

// StageDiagnostic mirrors one resolution stage for verbose responses.
type StageDiagnostic struct {
	Provider string `json:"provider"`
	Source   string `json:"source"`
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
}

// NumberInfo mirrors the offline number metadata for verbose responses.
type NumberInfo struct {
	Valid       bool     `json:"valid"`
	Possible    bool     `json:"possible"`
	Region      string   `json:"region,omitempty"`
	Description string   `json:"description,omitempty"`
	Carrier     string   `json:"carrier,omitempty"`
	LineType    string   `json:"line_type,omitempty"`
	Timezones   []string `json:"timezones,omitempty"`
}

// LookupResponse is the rendered resolution outcome.
type LookupResponse struct {
	Matched bool              `json:"matched"`
	Name    string            `json:"name,omitempty"`
	Source  string            `json:"source"`
	Number  string            `json:"number"`
	Message string            `json:"message,omitempty"`
	Info    *NumberInfo       `json:"info,omitempty"`
	Stages  []StageDiagnostic `json:"stages,omitempty"`
}

const notFoundMessage = "no match found"

// FromResolution renders a resolution. Stage diagnostics and offline number
// metadata are only included when verbose is requested; the default answer
// never reveals which providers were skipped or errored.
func FromResolution(res service.Resolution, verbose bool) LookupResponse {
	out := LookupResponse{
		Matched: res.Matched,
		Name:    res.Name,
		Source:  string(res.Source),
		Number:  res.Number.String(),
	}
	if !res.Matched {
		out.Message = notFoundMessage
	}
	if verbose {
		if info, err := phone.Describe(res.Number); err == nil {
			out.Info = &NumberInfo{
				Valid:       info.Valid,
				Possible:    info.Possible,
				Region:      info.Region,
				Description: info.Description,
				Carrier:     info.Carrier,
				LineType:    info.LineType,
				Timezones:   info.Timezones,
			}
		}
		out.Stages = make([]StageDiagnostic, 0, len(res.Stages))
		for _, stage := range res.Stages {
			out.Stages = append(out.Stages, StageDiagnostic{
				Provider: stage.Provider,
				Source:   string(stage.Source),
				Status:   string(stage.Status),
				Detail:   stage.Detail,
			})
		}
	}
	return out
}
