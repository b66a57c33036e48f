// Package provider defines the uniform contract for external name-lookup
// sources and the concrete adapters implementing it.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net"

	"phonefinder/platform/apperr"
	"phonefinder/platform/phone"
)

// Source identifies which lookup stage produced a result.
type Source string

const (
	SourceLocal             Source = "local"
	SourceCompanyRegistry   Source = "company_registry"
	SourceBusinessDirectory Source = "business_directory"
	SourceCallerID          Source = "caller_id"
	SourceHint              Source = "hint"
	SourceNone              Source = "none"
)

// Result is the outcome of a single lookup stage. Matched implies a non-empty
// Name and a Source other than SourceNone. Raw carries the provider payload
// for diagnostics; Err records an absorbed provider failure and is never
// propagated as a fatal error.
type Result struct {
	Matched bool
	Name    string
	Source  Source
	Raw     json.RawMessage
	Err     error
}

// Provider is the contract every external lookup source satisfies. Resolve
// must never block beyond its configured timeout, performs a single attempt,
// and converts every network, authentication, or parse failure into an
// unmatched Result.
type Provider interface {
	Name() string
	Source() Source
	Enabled() bool
	Resolve(ctx context.Context, num phone.Number) Result
}

// Matched builds a positive result for the given source.
func Matched(source Source, name string, raw json.RawMessage) Result {
	return Result{Matched: true, Name: name, Source: source, Raw: raw}
}

// Unmatched builds a negative result, optionally recording an absorbed error.
func Unmatched(source Source, raw json.RawMessage, err error) Result {
	return Result{Source: source, Raw: raw, Err: err}
}

// NoMatch is the terminal result when no stage produced a name.
func NoMatch() Result {
	return Result{Source: SourceNone}
}

// classifyTransportError distinguishes timeouts from other transport
// failures so diagnostics can tell a slow provider from a dead one.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Wrap(apperr.KindTimeout, "provider timed out", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindTimeout, "provider timed out", err)
	}
	return apperr.Wrap(apperr.KindUnavailable, "provider unreachable", err)
}

// e164OrDigits prefers the E.164 representation for outbound queries and
// falls back to the bare digit form.
func e164OrDigits(num phone.Number) string {
	if num.E164 != "" {
		return num.E164
	}
	return "+" + num.Digits
}
