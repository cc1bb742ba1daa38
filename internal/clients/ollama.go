package clients

import (
	"context"
	"net/http"
	"time"
)

// Ollama is a client for the model runtime. The dashboard only ever checks
// that the runtime is reachable; model calls go through the judge service.
type Ollama struct {
	baseURL string
	c       *http.Client
}

// NewOllama creates a model-runtime client.
func NewOllama(baseURL string, timeout time.Duration) *Ollama {
	return &Ollama{
		baseURL: baseURL,
		c:       &http.Client{Timeout: timeout},
	}
}

// Health probes the runtime's tags endpoint.
func (o *Ollama) Health(ctx context.Context) error {
	return probe(ctx, o.c, o.baseURL+"/api/tags")
}
