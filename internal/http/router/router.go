// Package router assembles the gin engine from the application modules.
package router

import (
	"net/http"
	"path/filepath"

	apphttp "phonefinder/internal/http"
	"phonefinder/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the gin engine: recovery, request IDs, request logging,
// security headers, CORS, per-IP rate limiting, the health endpoint, the
// static web form, and every module's routes under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(10), 20, app.Logger)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if app.WebDir != "" {
		registerWebAssets(engine, app.WebDir)
	}

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

// registerWebAssets serves the lookup form and its offline caching shim.
// The asset set is fixed; the service worker caches exactly these paths.
func registerWebAssets(engine *gin.Engine, webDir string) {
	engine.StaticFile("/", filepath.Join(webDir, "index.html"))
	engine.StaticFile("/app.js", filepath.Join(webDir, "app.js"))
	engine.StaticFile("/sw.js", filepath.Join(webDir, "sw.js"))
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if app.Config.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = app.Config.GetCORSOrigins()
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", httpkit.RequestIDHeader}
	return cors.New(corsCfg)
}
