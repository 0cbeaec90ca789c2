package router

import (
	"net/http"

	apphttp "sms_relay_backend/internal/http"
	"sms_relay_backend/platform/httpkit"
	"sms_relay_backend/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the gin engine, applies the shared middleware, and mounts every
// module in app.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())

	if app.Config.IsMetricsEnabled() {
		metrics.InitRelayMetrics()
		engine.Use(metrics.GinMiddleware())
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	engine.GET("/health", func(c *gin.Context) {
		payload := gin.H{"status": "ok"}
		if app.AddressBook != nil {
			payload["addressBookEntries"] = app.AddressBook.Len()
		}
		c.JSON(http.StatusOK, payload)
	})

	ctx := &apphttp.RouterContext{
		Engine: engine,
		Logger: app.Logger,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("registered module routes", "module", module.Name())
	}

	return engine
}
