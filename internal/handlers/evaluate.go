package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DeonBratus/small-transcriptor/internal/config"
	"github.com/DeonBratus/small-transcriptor/internal/session"
	"github.com/DeonBratus/small-transcriptor/internal/stream"
)

// JudgeClient is the client surface the evaluation handlers need.
type JudgeClient interface {
	Models(ctx context.Context) ([]string, error)
	Evaluate(ctx context.Context, docx io.Reader, docxName string, pptx io.Reader, pptxName, visionModel, evalModel string) (io.ReadCloser, error)
}

// fallbackModels mirrors the judge service's own fallback when the model
// runtime cannot be reached.
var fallbackModels = []string{"llama3.2", "llava", "mistral", "phi3"}

// EvaluateHandler drives the evaluation session: it relays the judge's
// stream to the browser while accumulating it, then emits the parsed
// structured review as the final event.
type EvaluateHandler struct {
	log     *zap.Logger
	client  JudgeClient
	session *session.Evaluation
}

func NewEvaluateHandler(log *zap.Logger, client JudgeClient, sess *session.Evaluation) *EvaluateHandler {
	return &EvaluateHandler{log: log, client: client, session: sess}
}

// Evaluate submits the document/presentation pair and streams the response.
// Events relayed to the browser: {"type":"delta"} fragments while running,
// then exactly one of {"type":"complete"} (with the session snapshot) or
// {"type":"error"}.
func (h *EvaluateHandler) Evaluate(c *gin.Context) {
	docxHeader, err := c.FormFile("docx_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "docx_file is required"})
		return
	}
	pptxHeader, err := c.FormFile("pptx_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pptx_file is required"})
		return
	}
	visionModel := c.DefaultPostForm("vision_model", config.Conf.Evaluate.VisionModel)
	evalModel := c.DefaultPostForm("eval_model", config.Conf.Evaluate.EvalModel)

	docx, err := docxHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read docx_file"})
		return
	}
	defer docx.Close()
	pptx, err := pptxHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read pptx_file"})
		return
	}
	defer pptx.Close()

	// A new run discards all prior session state. Everything below must
	// carry the run ID so a superseded run cannot write stale results.
	run := h.session.Begin()

	body, err := h.client.Evaluate(c.Request.Context(),
		docx, docxHeader.Filename, pptx, pptxHeader.Filename, visionModel, evalModel)
	if err != nil {
		h.log.Error("evaluation request failed", zap.Error(err))
		h.session.Fail(run, err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer body.Close()

	sseHeaders(c)
	stream.Decode(body, func(ev stream.Event) bool {
		switch ev.Kind {
		case stream.KindFragment:
			if !h.session.Append(run, ev.Text) {
				// Superseded by a newer run; stop relaying.
				return false
			}
			return writeSSE(c, gin.H{"type": "delta", "text": ev.Text})

		case stream.KindDone:
			if !h.session.Complete(run) {
				return false
			}
			snap := h.session.Snapshot()
			h.log.Info("evaluation complete",
				zap.Bool("parse_failed", snap.ParseFailed),
				zap.Int("raw_len", len(snap.Raw)))
			writeSSE(c, gin.H{"type": "complete", "session": snap})
			return false

		default: // stream.KindError
			h.log.Warn("evaluation stream error", zap.String("message", ev.Text))
			if !h.session.Fail(run, ev.Text) {
				return false
			}
			writeSSE(c, gin.H{"type": "error", "message": ev.Text})
			return false
		}
	})
}

// GetEvaluation returns the current evaluation session snapshot so a
// reloaded page can catch up on a run it is no longer streaming.
func (h *EvaluateHandler) GetEvaluation(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// GetModels proxies the judge's model list, degrading to a fixed fallback
// when the judge is unreachable.
func (h *EvaluateHandler) GetModels(c *gin.Context) {
	models, err := h.client.Models(c.Request.Context())
	if err != nil || len(models) == 0 {
		if err != nil {
			h.log.Warn("model list unavailable, using fallback", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"models": fallbackModels})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}
