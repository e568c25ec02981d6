package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "lungscreen/docs"
	"lungscreen/internal/app"
	"lungscreen/internal/cache"
	"lungscreen/internal/config"
	"lungscreen/internal/repository"
	"lungscreen/internal/service"
	"lungscreen/internal/transport/rest"
	"lungscreen/internal/transport/ws"
)

// @title Lung Screening Interview API
// @version 1.0
// @description Conversational lung cancer screening questionnaire service
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Chat model: %s", aiConfig.ChatModel)
	log.Printf("  Base URL:   %s", aiConfig.BaseURL)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:    configured ✓")
	} else {
		log.Println("  API Key:    NOT SET (lexicon-only validation)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisAddr
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Sessions fall back to process memory when Redis is unreachable, so a
	// dev box without Redis still runs single-instance.
	var sessionStore cache.SessionStore
	var statsCache cache.StatsCache
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("Warning: Redis unreachable (%v), using in-memory session store", err)
		sessionStore = cache.NewMemorySessionStore()
		statsCache = cache.NewMemoryStatsCache()
	} else {
		log.Println("Connected to Redis")
		sessionStore = cache.NewSessionStore(rdb)
		statsCache = cache.NewStatsCache(rdb)
	}

	storage := &app.App{
		ReportRepo:   repository.NewReportRepo(db),
		SessionStore: sessionStore,
		StatsCache:   statsCache,
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService()
	reportSvc := service.NewReportService(storage.ReportRepo, storage.StatsCache, cfg.ReportsDir)
	sessionSvc := service.NewSessionService(storage.SessionStore, authSvc, reportSvc)
	speechSvc := service.NewSpeechService(aiConfig, cfg.MediaDir)
	sessionSvc.SetSpeech(speechSvc)
	sessionSvc.SetBroadcaster(wsHub)

	if aiConfig.IsEnabled() {
		sessionSvc.SetAssistant(service.NewLLMService(aiConfig))
	}
	if aiConfig.AvatarURL != "" {
		sessionSvc.SetAvatar(service.NewAvatarClient(aiConfig))
	}

	// Expired audio files are swept in the background
	janitor := service.NewMediaJanitor(cfg.MediaDir, 24*time.Hour)
	janitor.Start(ctx)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		ReportService:  reportSvc,
		SpeechService:  speechSvc,
		Stats:          storage.StatsCache,
		WSHub:          wsHub,
		MediaDir:       cfg.MediaDir,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/sessions")
		log.Println("  POST /v1/sessions/{id}/reply")
		log.Println("  GET  /v1/sessions/{id}")
		log.Println("  GET  /v1/reports/{sessionId}")
		log.Println("  GET  /v1/reports")
		log.Println("  GET  /v1/stats")
		log.Println("  POST /v1/speech/transcribe")
		log.Println("  WS   /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
