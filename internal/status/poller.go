// Package status tracks the reachability of the dashboard's remote
// dependencies. Each service is a tri-state: unknown until the first probe
// completes, then up or down, re-derived in full on every tick.
package status

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the tri-state health of one service.
type State int

const (
	StateUnknown State = iota
	StateUp
	StateDown
)

func (s State) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDown:
		return "down"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the state as its string form.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Snapshot is the full health picture at one instant. A new snapshot
// replaces the previous one wholesale; states are never merged across ticks.
type Snapshot struct {
	Transcriptor State `json:"transcriptor"`
	Judge        State `json:"aiJudge"`
	Ollama       State `json:"ollama"`
}

// HealthChecker is the probe surface each service client exposes.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Poller probes the three services on a fixed interval. Every tick is an
// independent probe: no backoff, no latched failure state.
type Poller struct {
	transcriptor HealthChecker
	judge        HealthChecker
	ollama       HealthChecker

	interval     time.Duration
	probeTimeout time.Duration
	log          *zap.Logger

	mu   sync.RWMutex
	snap Snapshot
}

// New creates a poller; all services start in StateUnknown.
func New(transcriptor, judge, ollama HealthChecker, interval, probeTimeout time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		transcriptor: transcriptor,
		judge:        judge,
		ollama:       ollama,
		interval:     interval,
		probeTimeout: probeTimeout,
		log:          log,
	}
}

// Start runs the poll loop in a goroutine until ctx is canceled. The first
// probe fires immediately, not after the first interval elapses.
func (p *Poller) Start(ctx context.Context) {
	p.log.Info("Starting service status poller", zap.Duration("interval", p.interval))
	go func() {
		p.Poll(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.log.Info("Service status poller stopped")
				return
			case <-ticker.C:
				p.Poll(ctx)
			}
		}
	}()
}

// Poll runs one probe cycle and replaces the snapshot.
func (p *Poller) Poll(ctx context.Context) {
	snap := Snapshot{
		Transcriptor: p.classify(ctx, "transcriptor", p.transcriptor),
		Judge:        p.classify(ctx, "judge", p.judge),
		Ollama:       p.classify(ctx, "ollama", p.ollama),
	}

	p.mu.Lock()
	p.snap = snap
	p.mu.Unlock()
}

// Snapshot returns the most recent health picture.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// classify runs a single bounded probe. HTTP 200 is up; any other status or
// transport error is down.
func (p *Poller) classify(ctx context.Context, name string, hc HealthChecker) State {
	probeCtx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	if err := hc.Health(probeCtx); err != nil {
		p.log.Debug("service probe failed", zap.String("service", name), zap.Error(err))
		return StateDown
	}
	return StateUp
}
