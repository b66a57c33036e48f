// Package lookup provides the phone number resolution bounded context module.
package lookup

import (
	"phonefinder/internal/contacts/index"
	apphttp "phonefinder/internal/http"
	"phonefinder/internal/lookup/handler"
	"phonefinder/internal/lookup/provider"
	"phonefinder/internal/lookup/service"
	"phonefinder/platform/config"
	"phonefinder/platform/logger"
	"phonefinder/platform/validator"
)

// Module is the lookup bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule assembles the provider adapters and wires the resolution
// service. Provider credentials come from the config built at startup;
// adapters never read the environment themselves.
func NewModule(cfg config.ProviderConfig, contacts *index.Index, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(contacts, NewProviders(cfg, log), log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "lookup"
}

// Service returns the resolution service for external use (CLI wrapper).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lookup routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/lookup", m.handler.Lookup)
	ctx.V1.GET("/lookup", m.handler.LookupQuery)
}

// NewProviders builds the provider adapters in their fixed priority order:
// company registry, the two business directories, caller ID, hint. The order
// mirrors the specificity of what each source returns, named entities before
// hints; Yelp outranks Places within the directory tier.
func NewProviders(cfg config.ProviderConfig, log *logger.Logger) []provider.Provider {
	timeout := cfg.GetProviderTimeout()

	return []provider.Provider{
		provider.NewOpenCorporates(provider.OpenCorporatesConfig{
			APIKey:  cfg.GetOpenCorporatesAPIKey(),
			Timeout: timeout,
		}, log),
		provider.NewYelp(provider.YelpConfig{
			APIKey:  cfg.GetYelpAPIKey(),
			Timeout: timeout,
		}, log),
		provider.NewGooglePlaces(provider.GooglePlacesConfig{
			APIKey:  cfg.GetGoogleMapsAPIKey(),
			Timeout: timeout,
		}, log),
		provider.NewTwilio(provider.TwilioConfig{
			AccountSID: cfg.GetTwilioAccountSID(),
			AuthToken:  cfg.GetTwilioAuthToken(),
			Timeout:    timeout,
		}, log),
		provider.NewNumVerify(provider.NumVerifyConfig{
			APIKey:  cfg.GetNumVerifyAPIKey(),
			Timeout: timeout,
		}, log),
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
