package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"lungscreen/internal/cache"
	"lungscreen/internal/service"
	"lungscreen/internal/transport/rest/handler"
	"lungscreen/internal/transport/rest/middleware"
	"lungscreen/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	ReportService  *service.ReportService
	SpeechService  *service.SpeechService
	Stats          cache.StatsCache
	WSHub          *ws.Hub
	MediaDir       string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	reportHandler := handler.NewReportHandler(c.ReportService, c.Stats)
	speechHandler := handler.NewSpeechHandler(c.SpeechService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/speech/transcribe", speechHandler.Transcribe).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (require the session token issued at start)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/sessions/{id}/reply", sessionHandler.Reply).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")

	// Report routes (intake desk dashboard)
	v1.HandleFunc("/reports/{sessionId}", reportHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/reports", reportHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/stats", reportHandler.Stats).Methods("GET", "OPTIONS")

	// Synthesized audio for the question prompts
	if c.MediaDir != "" {
		r.PathPrefix("/static/media/").Handler(
			http.StripPrefix("/static/media/", http.FileServer(http.Dir(c.MediaDir))))
	}

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
