package main

import (
	"context"
	"log"
	"time"

	api "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/cmd/api"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/bot"
	maildomain "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"
	mailrepo "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/repository"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/usecase"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/ai"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/config"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/database"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/forms"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/mailbox"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/telegram"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&maildomain.AutoNews{}, &maildomain.UserNews{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	newsRepo := mailrepo.NewNewsRepository(db)

	// Initialize AI extraction service
	extractor, err := ai.NewExtractorService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
		Timeout:       cfg.AITimeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI service:", err)
	}
	log.Printf("AI service initialized with provider: %s", cfg.AIProvider)

	// Mailbox dialer
	dialer := mailbox.Dialer{
		Server:  cfg.IMAPServer,
		Folder:  cfg.IMAPFolder,
		Timeout: cfg.DialTimeout,
	}
	dial := usecase.DialFunc(func(creds mailbox.Credentials) (usecase.Session, error) {
		return dialer.Dial(creds)
	})

	// Usecases
	enricher := usecase.NewEnricher(extractor)
	pipeline := usecase.NewPipeline(dial, newsRepo, enricher)
	exporter := usecase.NewExporter(newsRepo, forms.NewClient(30*time.Second), cfg.FormURLAuto, cfg.FormURLUser, cfg.FormFields)

	// Telegram bot
	registry := bot.NewRegistry()
	if cfg.TelegramToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set. The bot will not start.")
	} else {
		tgClient := telegram.NewClient(cfg.TelegramToken, cfg.TelegramPollTimeout)
		b := bot.New(tgClient, registry, pipeline, exporter)
		go b.Poll(context.Background())
		log.Println("Telegram bot started")
	}

	// HTTP API
	handler := api.NewHandler(newsRepo, exporter, registry)
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
