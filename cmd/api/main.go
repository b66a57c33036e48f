package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"phonefinder/internal/contacts"
	apphttp "phonefinder/internal/http"
	"phonefinder/internal/http/router"
	"phonefinder/internal/lookup"
	"phonefinder/platform/config"
	"phonefinder/platform/logger"
	"phonefinder/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shared validator instance for dependency injection
	val := validator.New()

	// Local contact index; a malformed source is fatal at startup.
	contactsModule, err := contacts.NewModule(cfg, log)
	if err != nil {
		log.Error("failed to load contacts", "error", err)
		panic("failed to load contacts: " + err.Error())
	}

	lookupModule := lookup.NewModule(cfg, contactsModule.Index(), val, log)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		WebDir: "web",
		Modules: []apphttp.Module{
			lookupModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, exiting")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
