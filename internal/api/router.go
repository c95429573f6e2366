// Package api assembles the HTTP surface of the catalog service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"telugudb/internal/auth"
	"telugudb/internal/catalog"
	synchub "telugudb/internal/sync"
	"telugudb/pkg/metrics"
)

// Deps are the collaborators the router wires together.
type Deps struct {
	Store   catalog.Store
	Gate    *auth.Gate
	Hub     *synchub.Hub
	BaseURL string
	Logger  zerolog.Logger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(d.Logger), metrics.Middleware())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := d.Hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db":          "unreachable",
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/metrics", metrics.Handler())
	router.GET("/ws", synchub.WSHandler(d.Hub))
	router.GET("/sitemap.xml", catalog.SitemapHandler(d.Store, d.BaseURL, d.Logger))

	public := router.Group("/api")
	admin := router.Group("/api")
	admin.Use(auth.AdminKeyMiddleware(d.Gate, d.Logger.With().Str("component", "auth").Logger()))

	authHandler := auth.NewHandler(d.Gate, d.Logger)
	authHandler.RegisterRoutes(public.Group("/admin"))

	catalogHandler := catalog.NewHandler(d.Store, d.Hub, d.Logger)
	catalogHandler.RegisterRoutes(public, admin)

	return router
}

// requestLogger logs one line per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	httpLog := log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := httpLog.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = httpLog.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}
