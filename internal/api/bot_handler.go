package api

import (
	"errors"
	"io"
	"net/http"

	"store-admin/internal/service"
	"store-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUpdateSize = 1 << 20

// botWebhook accepts a Telegram update for the bot owning :token. Known tokens always get
// 200; relay failures are only logged.
func (h *Handler) botWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUpdateSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read update"})
		return
	}

	err = h.svc.Bots.HandleUpdate(c.Request.Context(), c.Param("token"), body)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown bot"})
		return
	default:
		util.LoggerFromContext(c.Request.Context()).Error("Failed to relay bot update", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
