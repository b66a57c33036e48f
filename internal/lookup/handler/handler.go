// Package handler exposes the lookup module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phonefinder/internal/lookup/service"
	"phonefinder/internal/lookup/transport"
	"phonefinder/platform/httpkit"
	"phonefinder/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for phone number lookups.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new lookup handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Lookup resolves a phone number from a JSON body.
// POST /api/v1/lookup
func (h *Handler) Lookup(c *gin.Context) {
	var req transport.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	h.resolve(c, req)
}

// LookupQuery resolves a phone number from query parameters.
// GET /api/v1/lookup?number=...&region=...
func (h *Handler) LookupQuery(c *gin.Context) {
	var req transport.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	h.resolve(c, req)
}

func (h *Handler) resolve(c *gin.Context, req transport.LookupRequest) {
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	res, err := h.svc.Resolve(c.Request.Context(), service.Input{
		Number:        req.Number,
		Region:        req.Region,
		ForceProvider: req.Provider,
		SkipLocal:     req.SkipLocal,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromResolution(res, req.Verbose))
}
