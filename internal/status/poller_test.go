package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubChecker struct{ err error }

func (s stubChecker) Health(ctx context.Context) error { return s.err }

func newTestPoller(transcriptor, judge, ollama error) *Poller {
	return New(
		stubChecker{transcriptor},
		stubChecker{judge},
		stubChecker{ollama},
		30*time.Second,
		time.Second,
		zap.NewNop(),
	)
}

func TestSnapshotStartsUnknown(t *testing.T) {
	p := newTestPoller(nil, nil, nil)
	snap := p.Snapshot()
	if snap.Transcriptor != StateUnknown || snap.Judge != StateUnknown || snap.Ollama != StateUnknown {
		t.Errorf("initial snapshot = %+v, want all unknown", snap)
	}
}

func TestPollClassifies(t *testing.T) {
	p := newTestPoller(nil, errors.New("connection refused"), nil)
	p.Poll(context.Background())

	snap := p.Snapshot()
	if snap.Transcriptor != StateUp {
		t.Errorf("transcriptor = %v, want up", snap.Transcriptor)
	}
	if snap.Judge != StateDown {
		t.Errorf("judge = %v, want down", snap.Judge)
	}
	if snap.Ollama != StateUp {
		t.Errorf("ollama = %v, want up", snap.Ollama)
	}
}

// No service may remain unknown once the first tick completes.
func TestPollLeavesNoUnknown(t *testing.T) {
	p := newTestPoller(errors.New("x"), errors.New("y"), errors.New("z"))
	p.Poll(context.Background())

	snap := p.Snapshot()
	for _, s := range []State{snap.Transcriptor, snap.Judge, snap.Ollama} {
		if s == StateUnknown {
			t.Errorf("state still unknown after first poll: %+v", snap)
		}
	}
}

// Each tick is an independent probe; a previous failure is not latched.
func TestPollReplacesSnapshot(t *testing.T) {
	down := stubChecker{errors.New("down")}
	up := stubChecker{nil}

	p := New(down, up, up, 30*time.Second, time.Second, zap.NewNop())
	p.Poll(context.Background())
	if p.Snapshot().Transcriptor != StateDown {
		t.Fatal("expected transcriptor down on first tick")
	}

	p.transcriptor = up
	p.Poll(context.Background())
	if p.Snapshot().Transcriptor != StateUp {
		t.Error("expected recovery on next tick, state was latched")
	}
}

func TestStateJSON(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateUnknown, `"unknown"`},
		{StateUp, `"up"`},
		{StateDown, `"down"`},
	}
	for _, tt := range tests {
		b, err := tt.state.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%v): %v", tt.state, err)
		}
		if string(b) != tt.expected {
			t.Errorf("MarshalJSON(%v) = %s, want %s", tt.state, b, tt.expected)
		}
	}
}
