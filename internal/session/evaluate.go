// Package session holds the dashboard's explicit session-scoped state:
// the current evaluation run and the last transcription. State is replaced
// wholesale when a new run starts; results from a superseded run carry a
// stale run ID and are dropped.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/DeonBratus/small-transcriptor/internal/judge"
)

// EvalStatus is the lifecycle state of the evaluation session.
type EvalStatus string

const (
	EvalIdle     EvalStatus = "idle"
	EvalRunning  EvalStatus = "running"
	EvalComplete EvalStatus = "complete"
	EvalError    EvalStatus = "error"
)

// Evaluation is the single evaluation session. The raw buffer grows
// append-only while a run streams; Complete derives the structured result
// from it exactly once per run.
type Evaluation struct {
	mu          sync.Mutex
	run         uuid.UUID
	status      EvalStatus
	raw         []byte
	thought     string
	result      *judge.Result
	parseFailed bool
	errMsg      string
}

// EvalSnapshot is a copyable view of the session for rendering. Percent and
// DecisionClass are derived display values: scores clamped onto [0,100] and
// the decision color class.
type EvalSnapshot struct {
	Status        EvalStatus     `json:"status"`
	Raw           string         `json:"raw"`
	Thought       string         `json:"thought,omitempty"`
	Result        *judge.Result  `json:"result,omitempty"`
	Percent       map[string]int `json:"percent,omitempty"`
	DecisionClass string         `json:"decision_class,omitempty"`
	ParseFailed   bool           `json:"parse_failed,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// NewEvaluation creates an idle evaluation session.
func NewEvaluation() *Evaluation {
	return &Evaluation{status: EvalIdle}
}

// Begin unconditionally clears all prior state and starts a new run.
// The returned run ID must accompany every later mutation; a mismatched ID
// means the mutation belongs to a superseded run and is ignored.
func (e *Evaluation) Begin() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.run = uuid.New()
	e.status = EvalRunning
	e.raw = nil
	e.thought = ""
	e.result = nil
	e.parseFailed = false
	e.errMsg = ""
	return e.run
}

// Append adds a stream fragment to the raw buffer. Returns false when the
// run has been superseded, in which case the fragment is discarded.
func (e *Evaluation) Append(run uuid.UUID, fragment string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run != run || e.status != EvalRunning {
		return false
	}
	e.raw = append(e.raw, fragment...)
	return true
}

// Complete marks the run finished and derives the structured result from
// the accumulated text. A parse failure is not an error: the raw text stays
// available and ParseFailed is flagged for the UI.
func (e *Evaluation) Complete(run uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run != run || e.status != EvalRunning {
		return false
	}
	raw := string(e.raw)
	e.thought = judge.ExtractThought(raw)
	if result, ok := judge.Parse(raw); ok {
		e.result = result
	} else {
		e.parseFailed = true
	}
	e.status = EvalComplete
	return true
}

// Fail marks the run failed with the given message.
func (e *Evaluation) Fail(run uuid.UUID, msg string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run != run || e.status != EvalRunning {
		return false
	}
	e.status = EvalError
	e.errMsg = msg
	return true
}

// Snapshot returns a copy of the current session state.
func (e *Evaluation) Snapshot() EvalSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := EvalSnapshot{
		Status:      e.status,
		Raw:         string(e.raw),
		Thought:     e.thought,
		Result:      e.result,
		ParseFailed: e.parseFailed,
		Error:       e.errMsg,
	}
	if e.result != nil {
		snap.Percent = e.result.ScorePercents()
		if e.result.Decision != nil {
			snap.DecisionClass = judge.DecisionClass(*e.result.Decision)
		}
	}
	return snap
}
