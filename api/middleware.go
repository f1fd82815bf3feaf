package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/kknight78/ffmpeg-banner-api/config"
)

// RateLimit returns middleware holding job submissions to a shared token
// bucket. The bucket refills at the configured per-minute rate and allows
// short bursts up to the configured size.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.PerMinute)/60.0), cfg.Burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}
