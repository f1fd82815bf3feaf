package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/apperrors"
	"github.com/kknight78/ffmpeg-banner-api/config"
	"github.com/kknight78/ffmpeg-banner-api/types"
)

// OverlayRunner runs overlay jobs on behalf of the HTTP layer.
type OverlayRunner interface {
	Run(ctx context.Context, req types.OverlayRequest) (types.OverlayResult, error)
	RunBatch(ctx context.Context, req types.BatchOverlayRequest) ([]types.OverlayResult, error)
}

// OverlayResponse is the success envelope for overlay endpoints. Single jobs
// return one result; batches return one per platform tag in request order.
type OverlayResponse struct {
	Results []types.OverlayResult `json:"results"`
}

// RegisterOverlayRoutes registers the overlay job endpoints. Jobs run
// synchronously: the response carries the published URLs.
func RegisterOverlayRoutes(r *gin.Engine, runner OverlayRunner, rl config.RateLimitConfig, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	ctl := &overlayController{runner: runner, log: log}

	g := r.Group("/api/overlay")
	if rl.Enabled {
		g.Use(RateLimit(rl))
	}
	g.POST("", ctl.handleOverlay)
	g.POST("/batch", ctl.handleBatch)
}

// RegisterHealthRoutes registers the liveness probe.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

type overlayController struct {
	runner OverlayRunner
	log    *zap.Logger
}

// handleOverlay runs a single overlay job.
func (ctl *overlayController) handleOverlay(c *gin.Context) {
	var req types.OverlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ctl.runner.Run(c.Request.Context(), req)
	if err != nil {
		ctl.log.Error("overlay job failed",
			zap.String("source_url", req.SourceURL),
			zap.String("platform_tag", req.PlatformTag),
			zap.Error(err))
		c.JSON(apperrors.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, OverlayResponse{Results: []types.OverlayResult{result}})
}

// handleBatch runs one job per platform tag against a single source video.
func (ctl *overlayController) handleBatch(c *gin.Context) {
	var req types.BatchOverlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := ctl.runner.RunBatch(c.Request.Context(), req)
	if err != nil {
		ctl.log.Error("overlay batch failed",
			zap.String("source_url", req.SourceURL),
			zap.Strings("platform_tags", req.PlatformTags),
			zap.Error(err))
		c.JSON(apperrors.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, OverlayResponse{Results: results})
}
