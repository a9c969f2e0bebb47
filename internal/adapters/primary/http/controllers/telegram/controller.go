package telegramController

import (
	"crypto/subtle"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/admin/tg-bots/astralab-bot/internal/domain"
	telegramService "github.com/admin/tg-bots/astralab-bot/internal/services/telegram"
)

type Controller struct {
	TgService   *telegramService.Service
	SecretToken string
	Log         *slog.Logger
}

func New(tgService *telegramService.Service, secretToken string, log *slog.Logger) *Controller {
	return &Controller{
		TgService:   tgService,
		SecretToken: secretToken,
		Log:         log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhook/", c.handleWebhook)
}

func (c *Controller) handleWebhook(ctx *gin.Context) {
	secretToken := ctx.GetHeader("X-Telegram-Bot-Api-Secret-Token")
	if c.SecretToken != "" && subtle.ConstantTimeCompare([]byte(secretToken), []byte(c.SecretToken)) != 1 {
		c.Log.Warn("webhook with wrong secret token rejected")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
		return
	}

	var update domain.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		c.Log.Error("failed to bind webhook request",
			"error", err,
		)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.Log.Debug("received webhook update",
		"update_id", update.UpdateID,
	)

	if err := c.TgService.HandleUpdate(ctx.Request.Context(), &update); err != nil {
		c.Log.Error("failed to handle update",
			"error", err,
			"update_id", update.UpdateID,
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process update"})
		return
	}

	// Telegram ожидает 200 OK в ответ
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
