package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	maildelivery "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/delivery"
)

func SetupRoutes(r *gin.Engine, newsHandler *maildelivery.NewsHandler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		news := api.Group("/news")
		{
			news.GET("/auto", newsHandler.GetAutoNews)
			news.GET("/user", newsHandler.GetUserNews)
		}

		api.GET("/runs", newsHandler.GetRuns)
		api.POST("/export", newsHandler.Export)
	}
}
