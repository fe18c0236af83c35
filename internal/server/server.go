// Package server provides the HTTP REST API for jobflow.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhe931/jobflow/internal/cache"
	"github.com/mhe931/jobflow/internal/config"
	"github.com/mhe931/jobflow/internal/db"
	"github.com/mhe931/jobflow/internal/llm"
	"github.com/mhe931/jobflow/internal/scheduler"
	"github.com/mhe931/jobflow/internal/server/middleware"
	"github.com/mhe931/jobflow/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	store        Store
	db           *db.DB
	cache        *cache.Cache
	rateLimiter  *ratelimit.Limiter
	jwtService   *JWTService
	userService  *UserService
	authHandler  *AuthHandler
	apiKeyConfig *config.APIKeyConfig
	janitor      *scheduler.Janitor

	// newLLMClient builds a client for a resolved API key; swapped out in tests
	newLLMClient func(ctx context.Context, apiKey string) (llm.Client, error)

	defaultAPIKey string
	useBrowser    bool
	verbose       bool
}

// Config holds server configuration
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	APIKey      string
	UseBrowser  bool
	Verbose     bool
	PurgeDays   int
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Redis is optional; discovery just loses its reachability cache without it
	var redisCache *cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err = cache.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: redis unavailable, running without cache: %v", err)
			redisCache = nil
		}
	}

	s, err := newServer(database, cfg)
	if err != nil {
		database.Close()
		return nil, err
	}
	s.db = database
	s.cache = redisCache
	if cfg.PurgeDays > 0 {
		s.janitor = scheduler.New(database, cfg.PurgeDays)
	}
	return s, nil
}

// newServer wires services and routes on top of a Store. Used directly by
// tests with a fake store.
func newServer(store Store, cfg Config) (*Server, error) {
	s := &Server{
		store:         store,
		defaultAPIKey: cfg.APIKey,
		useBrowser:    cfg.UseBrowser,
		verbose:       cfg.Verbose,
	}

	s.newLLMClient = func(ctx context.Context, apiKey string) (llm.Client, error) {
		return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(store, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.apiKeyConfig, err = config.NewAPIKeyConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create api key config: %w", err)
	}

	// Setup router
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("POST /v1/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", s.authHandler.Login)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Authenticated endpoints
	authed := http.NewServeMux()
	authed.HandleFunc("GET /v1/users/me", s.handleGetProfile)
	authed.HandleFunc("PUT /v1/users/me/resume", s.handleUpdateResume)
	authed.HandleFunc("POST /v1/users/me/analyze", s.handleAnalyze)
	authed.HandleFunc("GET /v1/users/me/parameters", s.handleGetParameters)
	authed.HandleFunc("PUT /v1/users/me/parameters", s.handleUpdateParameters)
	authed.HandleFunc("PUT /v1/users/me/api-key", s.handleSetAPIKey)
	authed.HandleFunc("DELETE /v1/users/me/api-key", s.handleClearAPIKey)
	authed.HandleFunc("POST /v1/users/me/sessions", s.handleCreateSession)
	authed.HandleFunc("GET /v1/users/me/sessions", s.handleListSessions)
	authed.HandleFunc("GET /v1/sessions/{id}/results", s.handleSessionResults)
	authed.HandleFunc("POST /v1/sessions/{id}/results/{result_id}/click", s.handleResultClick)
	authed.HandleFunc("POST /v1/sessions/{id}/results/{result_id}/view", s.handleResultView)

	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("/v1/users/", requireAuth(authed))
	mux.Handle("/v1/sessions/", requireAuth(authed))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for LLM-backed discovery
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if s.janitor != nil {
		if err := s.janitor.Start(context.Background()); err != nil {
			return fmt.Errorf("failed to start session janitor: %w", err)
		}
	}

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.janitor != nil {
		s.janitor.Stop()
	}

	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// domainError writes a JSON error response with the status mapped from the
// error taxonomy.
func (s *Server) domainError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		// Don't leak internals on unexpected failures
		log.Printf("Internal error: %v", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
