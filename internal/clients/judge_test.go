package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/" {
			t.Errorf("path = %s, want /models/", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"models":["llama3.2","llava"]}`)
	}))
	defer srv.Close()

	c := NewJudge(srv.URL, time.Minute, zap.NewNop())
	models, err := c.Models(context.Background())
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.2" {
		t.Errorf("models = %v", models)
	}
}

func TestModelsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no runtime", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewJudge(srv.URL, time.Minute, zap.NewNop())
	if _, err := c.Models(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestEvaluate(t *testing.T) {
	const wire = "data: <THOUGHT>notes</THOUGHT>\ndata: [DONE]\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evaluate/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("vision_model"); got != "llava" {
			t.Errorf("vision_model = %q", got)
		}
		if got := r.FormValue("eval_model"); got != "llama3.2" {
			t.Errorf("eval_model = %q", got)
		}
		for _, field := range []string{"docx_file", "pptx_file"} {
			if _, _, err := r.FormFile(field); err != nil {
				t.Errorf("missing %s: %v", field, err)
			}
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, wire)
	}))
	defer srv.Close()

	c := NewJudge(srv.URL, time.Minute, zap.NewNop())
	body, err := c.Evaluate(context.Background(),
		strings.NewReader("docx"), "thesis.docx",
		strings.NewReader("pptx"), "slides.pptx",
		"llava", "llama3.2")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != wire {
		t.Errorf("stream = %q, want %q", data, wire)
	}
}

func TestEvaluateNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad pptx"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewJudge(srv.URL, time.Minute, zap.NewNop())
	_, err := c.Evaluate(context.Background(),
		strings.NewReader("d"), "a.docx", strings.NewReader("p"), "b.pptx", "llava", "llama3.2")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "bad pptx") {
		t.Errorf("error %q does not carry response body", err)
	}
}
