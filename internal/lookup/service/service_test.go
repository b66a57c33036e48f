package service

import (
	"context"
	"strings"
	"testing"

	"phonefinder/internal/contacts/index"
	"phonefinder/internal/lookup/provider"
	"phonefinder/platform/apperr"
	"phonefinder/platform/logger"
	"phonefinder/platform/phone"
)

var testLog = logger.New("development")

// fakeProvider is a scripted test double for the provider contract.
type fakeProvider struct {
	name    string
	source  provider.Source
	enabled bool
	result  provider.Result
	calls   int
}

func (f *fakeProvider) Name() string            { return f.name }
func (f *fakeProvider) Source() provider.Source { return f.source }
func (f *fakeProvider) Enabled() bool           { return f.enabled }
func (f *fakeProvider) Resolve(ctx context.Context, num phone.Number) provider.Result {
	f.calls++
	return f.result
}

// countingContacts wraps an index and counts lookups.
type countingContacts struct {
	idx   *index.Index
	calls int
}

func (c *countingContacts) Find(num phone.Number) *index.Contact {
	c.calls++
	return c.idx.Find(num)
}

func loadIndex(t *testing.T, csv string) *index.Index {
	t.Helper()
	idx, err := index.Load(strings.NewReader(csv), "US")
	if err != nil {
		t.Fatalf("unexpected index load error: %v", err)
	}
	return idx
}

func emptyIndex(t *testing.T) *index.Index {
	return loadIndex(t, "name,phone\n")
}

func chainProviders() (*fakeProvider, *fakeProvider, *fakeProvider, *fakeProvider) {
	registry := &fakeProvider{name: "opencorporates", source: provider.SourceCompanyRegistry}
	directory := &fakeProvider{name: "yelp", source: provider.SourceBusinessDirectory}
	callerID := &fakeProvider{name: "twilio", source: provider.SourceCallerID}
	hint := &fakeProvider{name: "numverify", source: provider.SourceHint}
	return registry, directory, callerID, hint
}

func TestResolveLocalMatchShortCircuits(t *testing.T) {
	idx := loadIndex(t, "name,phone\nAlice,+14155552671\n")
	registry, directory, callerID, hint := chainProviders()
	registry.enabled = true
	registry.result = provider.Matched(provider.SourceCompanyRegistry, "ACME", nil)

	svc := New(idx, []provider.Provider{registry, directory, callerID, hint}, testLog)
	res, err := svc.Resolve(context.Background(), Input{Number: "4155552671", Region: "US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Matched || res.Name != "Alice" {
		t.Fatalf("expected local Alice match, got %+v", res)
	}
	if res.Source != provider.SourceLocal {
		t.Fatalf("expected local source, got %s", res.Source)
	}
	if registry.calls != 0 {
		t.Fatal("providers must not be called after a local match")
	}
}

func TestResolveDisabledProvidersAreNeverCalled(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	callerID.enabled = true
	callerID.result = provider.Matched(provider.SourceCallerID, "JANE DOE", nil)

	svc := New(emptyIndex(t), []provider.Provider{registry, directory, callerID, hint}, testLog)
	res, err := svc.Resolve(context.Background(), Input{Number: "+14155552671"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Matched || res.Name != "JANE DOE" {
		t.Fatalf("expected caller ID match, got %+v", res)
	}
	if res.Source != provider.SourceCallerID {
		t.Fatalf("expected caller_id source, got %s", res.Source)
	}
	if registry.calls != 0 || directory.calls != 0 {
		t.Fatal("disabled providers must never be called")
	}
	if hint.calls != 0 {
		t.Fatal("chain must short-circuit before the hint stage")
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	for _, p := range []*fakeProvider{registry, directory, callerID, hint} {
		p.enabled = true
		p.result = provider.Unmatched(p.source, nil, nil)
	}
	directory.result = provider.Matched(provider.SourceBusinessDirectory, "Blue Bottle", nil)
	hint.result = provider.Matched(provider.SourceHint, "carrier=X", nil)

	svc := New(emptyIndex(t), []provider.Provider{registry, directory, callerID, hint}, testLog)
	res, err := svc.Resolve(context.Background(), Input{Number: "+14155552671"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != provider.SourceBusinessDirectory {
		t.Fatalf("expected business_directory to win over hint, got %s", res.Source)
	}
	if registry.calls != 1 {
		t.Fatal("higher-priority registry must be consulted first")
	}
	if callerID.calls != 0 || hint.calls != 0 {
		t.Fatal("chain must stop at the first match")
	}
}

func TestResolveProviderErrorIsAbsorbed(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	registry.enabled = true
	registry.result = provider.Unmatched(provider.SourceCompanyRegistry, nil, apperr.Unavailable("connection refused"))
	callerID.enabled = true
	callerID.result = provider.Matched(provider.SourceCallerID, "JANE DOE", nil)

	svc := New(emptyIndex(t), []provider.Provider{registry, directory, callerID, hint}, testLog)
	res, err := svc.Resolve(context.Background(), Input{Number: "+14155552671"})
	if err != nil {
		t.Fatalf("provider failure must not surface as an error: %v", err)
	}
	if !res.Matched || res.Source != provider.SourceCallerID {
		t.Fatalf("expected chain to continue past the failed stage, got %+v", res)
	}

	var errored *Stage
	for i := range res.Stages {
		if res.Stages[i].Status == StageErrored {
			errored = &res.Stages[i]
		}
	}
	if errored == nil || errored.Provider != "opencorporates" {
		t.Fatalf("expected errored diagnostic for opencorporates, got %+v", res.Stages)
	}
}

func TestResolveNoMatchAnywhere(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	svc := New(emptyIndex(t), []provider.Provider{registry, directory, callerID, hint}, testLog)

	res, err := svc.Resolve(context.Background(), Input{Number: "+14155552671"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Matched {
		t.Fatalf("expected no match, got %+v", res)
	}
	if res.Source != provider.SourceNone {
		t.Fatalf("expected none source, got %s", res.Source)
	}
	// local unmatched + four skipped stages
	if len(res.Stages) != 5 {
		t.Fatalf("expected 5 stage diagnostics, got %d", len(res.Stages))
	}
	for _, stage := range res.Stages[1:] {
		if stage.Status != StageSkipped {
			t.Fatalf("expected disabled stage to be skipped, got %+v", stage)
		}
	}
}

func TestResolveInvalidNumberFailsFast(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	for _, p := range []*fakeProvider{registry, directory, callerID, hint} {
		p.enabled = true
	}
	contacts := &countingContacts{idx: emptyIndex(t)}
	svc := New(contacts, []provider.Provider{registry, directory, callerID, hint}, testLog)

	_, err := svc.Resolve(context.Background(), Input{Number: "abc"})
	if err == nil {
		t.Fatal("expected invalid number error")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if contacts.calls != 0 {
		t.Fatal("local index must not be consulted for invalid input")
	}
	if registry.calls+directory.calls+callerID.calls+hint.calls != 0 {
		t.Fatal("providers must not be consulted for invalid input")
	}
}

func TestResolveForcedProviderBypassesOrdering(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	registry.enabled = true
	registry.result = provider.Matched(provider.SourceCompanyRegistry, "ACME", nil)
	hint.enabled = true
	hint.result = provider.Matched(provider.SourceHint, "carrier=X", nil)

	contacts := &countingContacts{idx: emptyIndex(t)}
	svc := New(contacts, []provider.Provider{registry, directory, callerID, hint}, testLog)

	res, err := svc.Resolve(context.Background(), Input{Number: "+14155552671", ForceProvider: "hint"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != provider.SourceHint {
		t.Fatalf("expected forced hint source, got %s", res.Source)
	}
	if registry.calls != 0 {
		t.Fatal("forcing a provider must bypass higher-priority stages")
	}
	if contacts.calls != 1 {
		t.Fatal("forcing a provider must still consult local contacts first")
	}
}

func TestResolveForcedProviderWithSkipLocal(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	hint.enabled = true
	hint.result = provider.Matched(provider.SourceHint, "carrier=X", nil)

	contacts := &countingContacts{idx: loadIndex(t, "name,phone\nAlice,+14155552671\n")}
	svc := New(contacts, []provider.Provider{registry, directory, callerID, hint}, testLog)

	res, err := svc.Resolve(context.Background(), Input{Number: "+14155552671", ForceProvider: "numverify", SkipLocal: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contacts.calls != 0 {
		t.Fatal("skip_local must disable the local stage")
	}
	if res.Source != provider.SourceHint {
		t.Fatalf("expected hint source, got %s", res.Source)
	}
}

func TestResolveUnknownForcedProvider(t *testing.T) {
	registry, directory, callerID, hint := chainProviders()
	svc := New(emptyIndex(t), []provider.Provider{registry, directory, callerID, hint}, testLog)

	_, err := svc.Resolve(context.Background(), Input{Number: "+14155552671", ForceProvider: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request kind, got %v", err)
	}
}
