package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/bot"
	maildto "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/dto"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/repository"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/usecase"
)

type NewsHandler struct {
	newsRepo repository.NewsRepository
	exporter *usecase.Exporter
	registry *bot.Registry
}

func NewNewsHandler(newsRepo repository.NewsRepository, exporter *usecase.Exporter, registry *bot.Registry) *NewsHandler {
	return &NewsHandler{
		newsRepo: newsRepo,
		exporter: exporter,
		registry: registry,
	}
}

func (h *NewsHandler) GetAutoNews(c *gin.Context) {
	limit, offset := pagination(c)

	news, total, err := h.newsRepo.ListAuto(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, maildto.AutoNewsResponse{
		News:   news,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

func (h *NewsHandler) GetUserNews(c *gin.Context) {
	limit, offset := pagination(c)

	news, total, err := h.newsRepo.ListUser(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, maildto.UserNewsResponse{
		News:   news,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

func (h *NewsHandler) GetRuns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"runs": h.registry.Snapshot()})
}

func (h *NewsHandler) Export(c *gin.Context) {
	result, err := h.exporter.ExportAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
