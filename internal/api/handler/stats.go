package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats returns the hub snapshot for monitoring. Read-only.
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Hub.Snapshot())
}
