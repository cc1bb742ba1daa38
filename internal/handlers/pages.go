package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DeonBratus/small-transcriptor/internal/config"
)

// PagesHandler serves the dashboard shell. All dynamic data is fetched by
// the page itself through the /api endpoints.
type PagesHandler struct {
	log *zap.Logger
}

func NewPagesHandler(log *zap.Logger) *PagesHandler {
	return &PagesHandler{log: log}
}

func (h *PagesHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"NumSpeakers": config.Conf.Transcribe.NumSpeakers,
		"UseGPU":      config.Conf.Transcribe.UseGPU,
		"VisionModel": config.Conf.Evaluate.VisionModel,
		"EvalModel":   config.Conf.Evaluate.EvalModel,
	})
}
