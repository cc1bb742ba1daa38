package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Judge is a client for the AI-judge evaluation service.
type Judge struct {
	baseURL string
	c       *http.Client
	log     *zap.Logger
}

// NewJudge creates an evaluation client. The timeout bounds the whole
// streamed evaluation, which runs a remote model and takes minutes.
func NewJudge(baseURL string, timeout time.Duration, log *zap.Logger) *Judge {
	return &Judge{
		baseURL: baseURL,
		c:       &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Health probes the service health endpoint.
func (j *Judge) Health(ctx context.Context) error {
	return probe(ctx, j.c, j.baseURL+"/health/")
}

// Models returns the model names the judge can evaluate with.
func (j *Judge) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/models/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := j.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("judge", resp)
	}

	var out struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("judge models decode: %w", err)
	}
	return out.Models, nil
}

// Evaluate uploads a document/presentation pair and returns the raw response
// stream. The caller owns the returned reader and must close it; the stream
// carries "data:" lines terminated by [DONE] or ERROR:.
func (j *Judge) Evaluate(ctx context.Context, docx io.Reader, docxName string, pptx io.Reader, pptxName, visionModel, evalModel string) (io.ReadCloser, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("docx_file", docxName)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(fw, docx); err != nil {
		return nil, err
	}
	fw, err = w.CreateFormFile("pptx_file", pptxName)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(fw, pptx); err != nil {
		return nil, err
	}
	if err = w.WriteField("vision_model", visionModel); err != nil {
		return nil, err
	}
	if err = w.WriteField("eval_model", evalModel); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL+"/evaluate/", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "text/event-stream")

	resp, err := j.c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusErr("judge", resp)
	}

	j.log.Debug("evaluation stream opened",
		zap.String("vision_model", visionModel),
		zap.String("eval_model", evalModel))
	return resp.Body, nil
}
