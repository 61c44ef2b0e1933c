package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sage-llm/internal/config"
	"sage-llm/internal/email"
	apihttp "sage-llm/internal/http"
	"sage-llm/internal/llm"
	"sage-llm/internal/repository"
	"sage-llm/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if _, ok := llm.TryAcquire(cfg.GeminiBaseURL, cfg.GeminiAPIKey, logger); !ok {
		logger.Warn("gemini credential missing or invalid, chat will run on local buffer")
	}

	acquire := llm.AcquireFromConfig(cfg.GeminiBaseURL, cfg.GeminiAPIKey, logger)

	reviewRepo := repository.NewMemoryReviewRepository()
	leadRepo := repository.NewMemoryLeadRepository()

	conciergeSvc := service.NewConciergeService(acquire, cfg.ChatModel, logger)
	triageSvc := service.NewTriageService(acquire, reviewRepo, leadRepo, cfg.TriageModel, logger)
	mediaSvc := service.NewMediaService(
		acquire,
		cfg.ImageModel,
		cfg.VideoModel,
		time.Duration(cfg.VideoPollSeconds)*time.Second,
		cfg.VideoPollMaxAttempts,
		logger,
	)

	notifier := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			notifier = sender
		}
	}

	chatHandler := apihttp.NewChatHandler(logger, conciergeSvc)
	triageHandler := apihttp.NewTriageHandler(logger, reviewRepo, leadRepo, triageSvc, notifier, cfg.LeadAlertTo)
	mediaHandler := apihttp.NewMediaHandler(logger, mediaSvc)
	voiceHandler := apihttp.NewVoiceHandler(logger, cfg.VoiceEndpoint, cfg.GeminiAPIKey, cfg.VoiceModel)

	router := apihttp.NewRouter(logger, chatHandler, triageHandler, mediaHandler, voiceHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
