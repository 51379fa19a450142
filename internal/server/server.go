package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Aminorer/anonymizer-v3/internal/config"
	"github.com/Aminorer/anonymizer-v3/internal/engine"
	"github.com/Aminorer/anonymizer-v3/internal/logger"
	"github.com/Aminorer/anonymizer-v3/internal/web"
	"github.com/Aminorer/anonymizer-v3/internal/websocket"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server exposes the processing engine over HTTP.
type Server struct {
	config    *config.Config
	logger    *logger.Logger
	processor *engine.Processor
	router    *mux.Router
	server    *http.Server
	wsHub     *websocket.Hub
	limiter   *ipLimiter
}

// New creates an HTTP server around an already-constructed processor. The
// processor owns the detector stages; the server only adds transport.
func New(cfg *config.Config, processor *engine.Processor, log *logger.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		config:    cfg,
		logger:    log.WithComponent("server"),
		processor: processor,
		router:    router,
		wsHub:     websocket.NewHub(log.WithComponent("websocket").Logger),
		limiter:   newIPLimiter(cfg.Server.RateLimit.RequestsPerMin, cfg.Server.RateLimit.Burst),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Dashboard
	s.router.HandleFunc("/", web.ServeDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard", web.ServeDashboard).Methods("GET")

	// WebSocket endpoint for dashboard
	if s.config.WebSocket.Enabled {
		s.router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
	}

	// API endpoints
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.corsMiddleware)
	api.Use(s.loggingMiddleware)

	api.HandleFunc("", s.handleRoot).Methods("GET")
	api.HandleFunc("/", s.handleRoot).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.Handle("/process", s.rateLimitMiddleware(http.HandlerFunc(s.handleProcess))).Methods("POST", "OPTIONS")
	api.HandleFunc("/anonymize", s.handleAnonymize).Methods("POST", "OPTIONS")
	api.HandleFunc("/test-llm", s.handleTestLLM).Methods("POST", "OPTIONS")
	api.HandleFunc("/llm-models", s.handleLLMModels).Methods("GET")
	api.HandleFunc("/generate-document", s.handleGenerateDocument).Methods("POST", "OPTIONS")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting anonymizer server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("websocket", s.config.WebSocket.Enabled),
	)

	// Start WebSocket hub in a separate goroutine
	go s.wsHub.Run()
	s.limiter.startCleanupRoutine()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping anonymizer server")
	return s.server.Shutdown(ctx)
}

// handleWebSocket handles WebSocket connections for the dashboard
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
