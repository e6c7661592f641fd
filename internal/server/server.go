// Package server provides the HTTP REST API for the resume analyzer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/server/middleware"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

// multipartOverhead is allowed on top of the upload limit for form fields and boundaries.
const multipartOverhead = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	engine          *pipeline.Engine
	rateLimiter     *ratelimit.Limiter
	maxUploadBytes  int64
	shutdownTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port            int
	MaxUploadBytes  int64
	AllowedOrigins  []string // empty allows all origins
	RateLimit       *ratelimit.Config
	ShutdownTimeout time.Duration
}

// New creates a new server instance
func New(engine *pipeline.Engine, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	s := &Server{
		engine:          engine,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
		maxUploadBytes:  cfg.MaxUploadBytes,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(cfg.AllowedOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM reviews can be slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(s.withRateLimit())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/analyze", s.handleReview)

	resume := api.Group("/resume")
	resume.POST("/analyze", s.handleAnalyze)
	resume.POST("/generate-enhanced", s.handleGenerateEnhanced)
	resume.POST("/recommendations", s.handleRecommendations)
	resume.POST("/generate-recommendation-pdf", s.handleGenerateRecommendationPDF)
	resume.GET("/download/:filename", s.handleDownload)

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// withRateLimit rejects clients that exceeded their budget for an endpoint.
func (s *Server) withRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, info := s.rateLimiter.Allow(c.ClientIP(), c.Request.URL.Path, c.Request.Method)
		setRateLimitHeaders(c, info)
		if !allowed {
			s.rateLimitResponse(c, info)
			return
		}
		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(c *gin.Context, info ratelimit.Info) {
	if info.Limit > 0 {
		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(c *gin.Context, info ratelimit.Info) {
	response := gin.H{
		"success":   false,
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.UTC().Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		seconds = max(seconds, 1)
		response["retry_after"] = seconds
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	slog.WarnContext(c.Request.Context(), "rate limit exceeded",
		"client_ip", c.ClientIP(),
		"path", c.Request.URL.Path,
		"limit", info.Limit)

	c.AbortWithStatusJSON(http.StatusTooManyRequests, response)
}

// errorResponse logs err and writes its client-facing form.
func (s *Server) errorResponse(c *gin.Context, err error) {
	status, message := classify(err)
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
	} else {
		slog.WarnContext(ctx, "request rejected", "error", err, "status", status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
