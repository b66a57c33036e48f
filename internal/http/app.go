// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"phonefinder/platform/config"
	"phonefinder/platform/logger"
)

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// WebDir is the directory holding the static web form assets. Empty
	// disables the web surface.
	WebDir string
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
