// Package clients holds thin HTTP clients for the remote services the
// dashboard depends on: the transcription service, the AI-judge evaluation
// service, and the ollama model runtime. Every client wraps a *http.Client
// and surfaces non-2xx responses as errors with the body folded in.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Segment is one diarized utterance of the transcript.
type Segment struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// TranscribeResult is the transcription service's structured response.
type TranscribeResult struct {
	Segments       []Segment `json:"segments"`
	ProcessingTime float64   `json:"processing_time"`
}

// Transcriptor is a client for the speech-transcription service.
type Transcriptor struct {
	baseURL string
	c       *http.Client
	log     *zap.Logger
}

// NewTranscriptor creates a transcription client. The timeout should be
// generous: transcription of a long recording takes minutes.
func NewTranscriptor(baseURL string, timeout time.Duration, log *zap.Logger) *Transcriptor {
	return &Transcriptor{
		baseURL: baseURL,
		c:       &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Health probes the service root. A 200 means the service is up.
func (t *Transcriptor) Health(ctx context.Context) error {
	return probe(ctx, t.c, t.baseURL+"/")
}

// Transcribe uploads an audio file and blocks until the full diarized
// segment list is returned.
func (t *Transcriptor) Transcribe(ctx context.Context, file io.Reader, filename string, numSpeakers int, useGPU bool) (*TranscribeResult, error) {
	body, contentType, err := transcribeForm(file, filename, numSpeakers, useGPU)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/transcribe", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("transcriptor", resp)
	}

	var out TranscribeResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("transcriptor decode: %w", err)
	}
	t.log.Debug("transcription complete",
		zap.Int("segments", len(out.Segments)),
		zap.Float64("processing_time", out.ProcessingTime))
	return &out, nil
}

// Download uploads an audio file and returns the transcript as a raw file
// stream. The caller must close the returned reader.
func (t *Transcriptor) Download(ctx context.Context, file io.Reader, filename string, numSpeakers int, useGPU bool) (io.ReadCloser, string, error) {
	body, contentType, err := transcribeForm(file, filename, numSpeakers, useGPU)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/transcribe/download", body)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.c.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, "", statusErr("transcriptor", resp)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// transcribeForm builds the multipart body shared by both transcription
// endpoints: the audio file plus num_speakers and use_gpu fields.
func transcribeForm(file io.Reader, filename string, numSpeakers int, useGPU bool) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err = io.Copy(fw, file); err != nil {
		return nil, "", err
	}
	if err = w.WriteField("num_speakers", strconv.Itoa(numSpeakers)); err != nil {
		return nil, "", err
	}
	if err = w.WriteField("use_gpu", strconv.FormatBool(useGPU)); err != nil {
		return nil, "", err
	}
	if err = w.Close(); err != nil {
		return nil, "", err
	}
	return &b, w.FormDataContentType(), nil
}

// probe issues a GET and classifies any non-200 response as a failure.
func probe(ctx context.Context, c *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe %s: %s", url, resp.Status)
	}
	return nil
}

// statusErr folds a non-2xx response body into the returned error.
func statusErr(service string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s %s: %s", service, resp.Status, bytes.TrimSpace(body))
}
