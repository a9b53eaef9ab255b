package api

import (
	"github.com/gin-gonic/gin"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/bot"
	maildelivery "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/delivery"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/repository"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/usecase"
)

type Handler struct {
	newsHandler *maildelivery.NewsHandler
}

func NewHandler(newsRepo repository.NewsRepository, exporter *usecase.Exporter, registry *bot.Registry) *Handler {
	return &Handler{
		newsHandler: maildelivery.NewNewsHandler(newsRepo, exporter, registry),
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.newsHandler)

	return r.Run(addr)
}
