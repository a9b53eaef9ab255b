package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// IMAP
	IMAPServer  string
	IMAPFolder  string
	DialTimeout time.Duration

	// Telegram
	TelegramToken       string
	TelegramPollTimeout time.Duration

	// Database
	DatabaseDSN string

	// AI extraction
	AIProvider    string
	GeminiAPIKey  string
	OllamaBaseURL string
	OllamaModel   string
	AITimeout     time.Duration

	// Google Forms export
	FormURLAuto string
	FormURLUser string
	FormFields  FormFields
}

// FormFields maps record columns to the entry.* identifiers of the target form.
type FormFields struct {
	SentAt      string
	SenderName  string
	SenderEmail string
	Content     string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		IMAPServer:  getEnv("IMAP_SERVER", "imap.gmail.com:993"),
		IMAPFolder:  getEnv("IMAP_FOLDER", "INBOX"),
		DialTimeout: getDuration("IMAP_DIAL_TIMEOUT", 30*time.Second),

		TelegramToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramPollTimeout: getDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),

		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=news port=5432 sslmode=disable"),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
		AITimeout:     getDuration("AI_TIMEOUT", 60*time.Second),

		FormURLAuto: getEnv("FORM_URL_AUTO", ""),
		FormURLUser: getEnv("FORM_URL_USER", ""),
		FormFields: FormFields{
			SentAt:      getEnv("FORM_FIELD_SENT_AT", "entry.1254920258"),
			SenderName:  getEnv("FORM_FIELD_SENDER_NAME", "entry.831907760"),
			SenderEmail: getEnv("FORM_FIELD_SENDER_EMAIL", "entry.2137566045"),
			Content:     getEnv("FORM_FIELD_CONTENT", "entry.582710391"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
