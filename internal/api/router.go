package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"statdemo/internal/container"
)

// NewRouter builds the gin engine serving the JSON API, health and metrics
func NewRouter(c *container.Container) *gin.Engine {
	gin.SetMode(c.Config.Server.GinMode)

	r := gin.New()
	r.Use(requestLogger(c.Logger.Named("http")), gin.Recovery())

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "cached_samples": c.Cache.Len()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))

	NewHandler(c.Service, Options{
		DefaultSampleSize: c.Config.Simulation.SampleSize,
		DefaultSeed:       c.Config.Simulation.Seed,
		MaxSampleSize:     c.Config.Simulation.MaxSampleSize,
	}, c.Logger.Named("api")).Register(r)

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
