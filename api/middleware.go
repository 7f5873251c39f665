package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Per-route request budgets. Feed imports hit the network and the store,
// so they get a much smaller bucket than ordinary API traffic.
const (
	importRequestsPerSecond  = 1
	importBurst              = 2
	generalRequestsPerSecond = 10
	generalBurst             = 20

	maxRequestBodyBytes = 1 << 20

	limiterSweepInterval = 5 * time.Minute
	limiterIdleExpiry    = 10 * time.Minute
)

// clientLimiter pairs a client's token bucket with the time it last made
// a request, so idle entries can be swept.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func CORS() gin.HandlerFunc {
	headers := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
		"Access-Control-Max-Age":       "86400",
	}
	return func(c *gin.Context) {
		for name, value := range headers {
			c.Header(name, value)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestSizeLimit caps mutating request bodies at maxRequestBodyBytes.
func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(maxRequestBodyBytes)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// ImportRateLimit is the budget for feed-import requests.
func ImportRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) gin.HandlerFunc {
	return PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, importRequestsPerSecond, importBurst)
}

// GeneralRateLimit is the budget for the rest of the API surface.
func GeneralRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) gin.HandlerFunc {
	return PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, generalRequestsPerSecond, generalBurst)
}

// PerClientRateLimit enforces a token bucket per client IP. All instances
// share one limiter map; the first one started spawns the sweep goroutine.
func PerClientRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once, rps int, burst int) gin.HandlerFunc {
	cleanupInitialized.Do(func() {
		go cleanupOldRateLimiters(rateLimiters, cleanupStop)
	})

	return func(c *gin.Context) {
		cl := limiterFor(rateLimiters, c.ClientIP(), rps, burst)
		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error":  "too many requests from this client",
			})
			return
		}
		c.Next()
	}
}

func limiterFor(rateLimiters *sync.Map, clientIP string, rps int, burst int) *clientLimiter {
	entry, _ := rateLimiters.LoadOrStore(clientIP, &clientLimiter{
		limiter:  rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst),
		lastSeen: time.Now(),
	})
	cl := entry.(*clientLimiter)
	cl.lastSeen = time.Now()
	return cl
}

func cleanupOldRateLimiters(rateLimiters *sync.Map, cleanupStop chan struct{}) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweepStaleLimiters(rateLimiters, time.Now())
		case <-cleanupStop:
			return
		}
	}
}

// sweepStaleLimiters drops limiters whose client has been idle past the
// expiry window.
func sweepStaleLimiters(rateLimiters *sync.Map, now time.Time) {
	rateLimiters.Range(func(key, value any) bool {
		if now.Sub(value.(*clientLimiter).lastSeen) > limiterIdleExpiry {
			rateLimiters.Delete(key)
		}
		return true
	})
}
