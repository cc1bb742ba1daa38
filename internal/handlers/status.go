package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DeonBratus/small-transcriptor/internal/status"
)

// StatusHandler serves the tri-state health snapshot the UI uses to gate
// its action buttons.
type StatusHandler struct {
	log    *zap.Logger
	poller *status.Poller
}

func NewStatusHandler(log *zap.Logger, poller *status.Poller) *StatusHandler {
	return &StatusHandler{log: log, poller: poller}
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.poller.Snapshot())
}
