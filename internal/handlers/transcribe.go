package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DeonBratus/small-transcriptor/internal/clients"
	"github.com/DeonBratus/small-transcriptor/internal/config"
	"github.com/DeonBratus/small-transcriptor/internal/session"
)

// TranscriptorClient is the client surface the transcription handlers need.
type TranscriptorClient interface {
	Transcribe(ctx context.Context, file io.Reader, filename string, numSpeakers int, useGPU bool) (*clients.TranscribeResult, error)
	Download(ctx context.Context, file io.Reader, filename string, numSpeakers int, useGPU bool) (io.ReadCloser, string, error)
}

// TranscribeHandler drives the upload/transcribe session: a blocking call,
// an optional simulated-incremental reveal, and a raw-file download.
type TranscribeHandler struct {
	log     *zap.Logger
	client  TranscriptorClient
	session *session.Transcription
}

func NewTranscribeHandler(log *zap.Logger, client TranscriptorClient, sess *session.Transcription) *TranscribeHandler {
	return &TranscribeHandler{log: log, client: client, session: sess}
}

// Transcribe uploads the audio file to the transcription service and either
// returns the full segment list as JSON or, with ?stream=1, reveals the
// segments one at a time over SSE with a fixed artificial delay. The reveal
// is a UX shim: the backend call itself is a single blocking request.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	numSpeakers := formInt(c, "num_speakers", config.Conf.Transcribe.NumSpeakers)
	useGPU := formBool(c, "use_gpu", config.Conf.Transcribe.UseGPU)

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()

	start := time.Now()
	result, err := h.client.Transcribe(c.Request.Context(), f, fh.Filename, numSpeakers, useGPU)
	elapsed := time.Since(start)
	if err != nil {
		h.log.Error("transcription failed", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.session.Set(fh.Filename, result.Segments, elapsed)
	h.log.Info("transcription finished",
		zap.String("file", fh.Filename),
		zap.Int("segments", len(result.Segments)),
		zap.Duration("elapsed", elapsed))

	if c.Query("stream") == "1" {
		h.reveal(c, result, elapsed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"segments":        result.Segments,
		"elapsed_ms":      elapsed.Milliseconds(),
		"processing_time": result.ProcessingTime,
	})
}

// reveal replays an already-complete segment list as SSE, one segment per
// event with a fixed pause in between.
func (h *TranscribeHandler) reveal(c *gin.Context, result *clients.TranscribeResult, elapsed time.Duration) {
	sseHeaders(c)
	writeSSE(c, gin.H{
		"type":       "meta",
		"segments":   len(result.Segments),
		"elapsed_ms": elapsed.Milliseconds(),
	})

	delay := config.Conf.Transcribe.RevealDelay()
	for _, seg := range result.Segments {
		if c.Request.Context().Err() != nil {
			return
		}
		if !writeSSE(c, gin.H{"type": "segment", "segment": seg}) {
			return
		}
		time.Sleep(delay)
	}
	writeSSE(c, gin.H{"type": "done"})
}

// Download relays the transcription service's file response as an
// attachment. Nothing is persisted server-side.
func (h *TranscribeHandler) Download(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	numSpeakers := formInt(c, "num_speakers", config.Conf.Transcribe.NumSpeakers)
	useGPU := formBool(c, "use_gpu", config.Conf.Transcribe.UseGPU)

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()

	body, contentType, err := h.client.Download(c.Request.Context(), f, fh.Filename, numSpeakers, useGPU)
	if err != nil {
		h.log.Error("transcript download failed", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "transcription_"+fh.Filename+".txt"))
	c.Status(http.StatusOK)
	io.Copy(c.Writer, body)
}

// GetTranscription returns the last completed transcription so a reloaded
// page can catch up.
func (h *TranscribeHandler) GetTranscription(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

func formInt(c *gin.Context, key string, fallback int) int {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func formBool(c *gin.Context, key string, fallback bool) bool {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
