package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"javis/internal/auth"
	"javis/internal/config"
	"javis/internal/handler"
	"javis/internal/handler/sse"
	"javis/internal/middleware"
	"javis/internal/repository/store"
	"javis/internal/service/assistant"
	"javis/internal/service/chat"
	"javis/internal/service/cicd"
	"javis/internal/service/github"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"ai_service", cfg.AIServiceURL,
		"debug", cfg.Debug,
	)
	if cfg.GitHubToken == "" {
		logger.Warn("GITHUB_TOKEN is not set; publishing endpoints will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	// Outbound clients
	dispatcher := assistant.NewClient(cfg.AIServiceURL, cfg.AITimeout, logger)
	githubClient := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken, logger)
	publisher := github.NewPublisher(githubClient, cfg.GeneratedProjectsDir, logger)

	templates, err := cicd.LoadTemplates()
	if err != nil {
		log.Fatalf("Failed to load CI/CD templates: %v", err)
	}
	provisioner := cicd.NewProvisioner(githubClient, cfg.GitHubUsername, cfg, templates, logger)

	// Services
	roomService := chat.NewRoomService(st.Rooms, logger)
	messageService := chat.NewMessageService(st.Rooms, st.Messages, st.Tx, dispatcher, publisher, cfg.GitHubToken, logger)

	sseConfig := sse.DefaultConfig()
	sseConfig.EventIDs = cfg.SSEEventIDs

	mux := handler.NewRouter(&handler.Handlers{
		Health:   handler.NewHealthHandler(st.Ping, logger),
		Rooms:    handler.NewRoomHandler(roomService, logger),
		Messages: handler.NewMessageHandler(messageService, sseConfig, logger),
		GitHub:   handler.NewGitHubHandler(githubClient, publisher, cfg.GitHubToken, sseConfig, logger),
		CICD:     handler.NewCICDHandler(provisioner, logger),
	})
	logger.Info("services initialized")

	// Optional bearer-token gate
	var verifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		verifier = jwtVerifier
		logger.Info("authentication enabled", "jwks_url", cfg.JWKSURL)
	}

	// Order: CORS → RequestLogger → Recovery → Auth → Routes
	h := middleware.Chain(mux, verifier, logger)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
