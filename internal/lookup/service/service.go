// Package service implements the resolution chain: the ordered walk over the
// local contact index and the configured external providers.
package service

import (
	"context"
	"strings"

	"phonefinder/internal/contacts/index"
	"phonefinder/internal/lookup/provider"
	"phonefinder/platform/apperr"
	"phonefinder/platform/logger"
	"phonefinder/platform/phone"
)

// ContactFinder is the read-only view of the local contact index the chain
// needs.
type ContactFinder interface {
	Find(num phone.Number) *index.Contact
}

// Input is a single resolution request.
type Input struct {
	// Number is the raw phone number to resolve.
	Number string
	// Region is an optional ISO region hint for parsing.
	Region string
	// ForceProvider restricts the external stages to a single provider,
	// addressed by provider name or source tag. Empty means the full chain.
	ForceProvider string
	// SkipLocal skips the local contact stage. Only meaningful together with
	// ForceProvider; the default chain always consults local first.
	SkipLocal bool
}

// StageStatus describes how a single stage concluded.
type StageStatus string

const (
	StageMatched   StageStatus = "matched"
	StageUnmatched StageStatus = "unmatched"
	StageSkipped   StageStatus = "skipped"
	StageErrored   StageStatus = "errored"
)

// Stage is the diagnostic record of one resolution stage. Failures are
// visible here and nowhere else; the user-facing outcome only says whether a
// name was found.
type Stage struct {
	Provider string
	Source   provider.Source
	Status   StageStatus
	Detail   string
}

// Resolution is the outcome of one resolution chain run.
type Resolution struct {
	Matched bool
	Name    string
	Source  provider.Source
	Number  phone.Number
	Stages  []Stage
}

// Service orchestrates the resolution chain. It is stateless across calls
// apart from its immutable configuration and safe for concurrent use.
type Service struct {
	contacts  ContactFinder
	providers []provider.Provider
	log       *logger.Logger
}

// New creates the resolution service. Providers must already be ordered by
// priority, highest first.
func New(contacts ContactFinder, providers []provider.Provider, log *logger.Logger) *Service {
	return &Service{
		contacts:  contacts,
		providers: providers,
		log:       log,
	}
}

// Resolve runs the chain for one number: normalize, local index, then the
// configured providers in priority order, short-circuiting on the first
// match. Normalization failures abort before any stage runs; per-provider
// failures are absorbed into their stage diagnostics.
func (s *Service) Resolve(ctx context.Context, in Input) (Resolution, error) {
	num, err := phone.Normalize(in.Number, in.Region)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Number: num, Source: provider.SourceNone}

	chain := s.providers
	if in.ForceProvider != "" {
		forced, ok := s.providerFor(in.ForceProvider)
		if !ok {
			return Resolution{}, apperr.BadRequest("unknown provider: " + in.ForceProvider)
		}
		chain = []provider.Provider{forced}
	}

	if in.SkipLocal {
		res.Stages = append(res.Stages, Stage{Provider: "local", Source: provider.SourceLocal, Status: StageSkipped, Detail: "disabled by caller"})
	} else {
		if contact := s.contacts.Find(num); contact != nil {
			res.Matched = true
			res.Name = contact.Name
			res.Source = provider.SourceLocal
			res.Stages = append(res.Stages, Stage{Provider: "local", Source: provider.SourceLocal, Status: StageMatched})
			s.log.WithContext(ctx).LookupEvent(string(res.Source), true, len(res.Stages))
			return res, nil
		}
		res.Stages = append(res.Stages, Stage{Provider: "local", Source: provider.SourceLocal, Status: StageUnmatched})
	}

	for _, p := range chain {
		if !p.Enabled() {
			res.Stages = append(res.Stages, Stage{Provider: p.Name(), Source: p.Source(), Status: StageSkipped, Detail: "credentials not configured"})
			continue
		}

		result := p.Resolve(ctx, num)
		switch {
		case result.Matched:
			res.Matched = true
			res.Name = result.Name
			res.Source = result.Source
			res.Stages = append(res.Stages, Stage{Provider: p.Name(), Source: p.Source(), Status: StageMatched})
			s.log.WithContext(ctx).LookupEvent(string(res.Source), true, len(res.Stages))
			return res, nil
		case result.Err != nil:
			res.Stages = append(res.Stages, Stage{Provider: p.Name(), Source: p.Source(), Status: StageErrored, Detail: result.Err.Error()})
		default:
			res.Stages = append(res.Stages, Stage{Provider: p.Name(), Source: p.Source(), Status: StageUnmatched})
		}
	}

	s.log.WithContext(ctx).LookupEvent(string(provider.SourceNone), false, len(res.Stages))
	return res, nil
}

// providerFor addresses a configured provider by name or source tag.
func (s *Service) providerFor(key string) (provider.Provider, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range s.providers {
		if key == p.Name() || key == string(p.Source()) {
			return p, true
		}
	}
	return nil, false
}
