package session

import (
	"testing"
)

func TestEvaluationLifecycle(t *testing.T) {
	e := NewEvaluation()
	if snap := e.Snapshot(); snap.Status != EvalIdle {
		t.Fatalf("new session status = %v, want idle", snap.Status)
	}

	run := e.Begin()
	if snap := e.Snapshot(); snap.Status != EvalRunning {
		t.Fatalf("status after Begin = %v, want running", snap.Status)
	}

	if !e.Append(run, "<JSON>{\"Overall\":7,") {
		t.Fatal("append rejected for live run")
	}
	if !e.Append(run, "\"Strengths\":\"good scope\"}</JSON>") {
		t.Fatal("append rejected for live run")
	}
	if !e.Complete(run) {
		t.Fatal("complete rejected for live run")
	}

	snap := e.Snapshot()
	if snap.Status != EvalComplete {
		t.Errorf("status = %v, want complete", snap.Status)
	}
	if snap.ParseFailed {
		t.Error("parse unexpectedly failed")
	}
	if snap.Result == nil || snap.Result.Overall == nil || *snap.Result.Overall != 7 {
		t.Errorf("result = %+v, want Overall 7", snap.Result)
	}
	if snap.Raw == "" {
		t.Error("raw text not retained")
	}
}

func TestEvaluationParseFailureIsNotAnError(t *testing.T) {
	e := NewEvaluation()
	run := e.Begin()
	e.Append(run, "free-form text with no payload")
	e.Complete(run)

	snap := e.Snapshot()
	if snap.Status != EvalComplete {
		t.Errorf("status = %v, want complete", snap.Status)
	}
	if !snap.ParseFailed {
		t.Error("expected parse_failed flag")
	}
	if snap.Result != nil {
		t.Errorf("result = %+v, want nil", snap.Result)
	}
	if snap.Raw != "free-form text with no payload" {
		t.Errorf("raw = %q, want original text", snap.Raw)
	}
}

func TestEvaluationFail(t *testing.T) {
	e := NewEvaluation()
	run := e.Begin()
	e.Append(run, "partial")
	if !e.Fail(run, "model not found") {
		t.Fatal("fail rejected for live run")
	}

	snap := e.Snapshot()
	if snap.Status != EvalError {
		t.Errorf("status = %v, want error", snap.Status)
	}
	if snap.Error != "model not found" {
		t.Errorf("error = %q, want model not found", snap.Error)
	}
}

// A new run discards the old one; the old run's late results are ignored.
func TestEvaluationStaleRunIgnored(t *testing.T) {
	e := NewEvaluation()
	stale := e.Begin()
	e.Append(stale, "old ")

	fresh := e.Begin()
	if snap := e.Snapshot(); snap.Raw != "" {
		t.Fatalf("Begin did not clear raw buffer: %q", snap.Raw)
	}

	if e.Append(stale, "late fragment") {
		t.Error("stale append was applied")
	}
	if e.Complete(stale) {
		t.Error("stale complete was applied")
	}
	if e.Fail(stale, "late error") {
		t.Error("stale fail was applied")
	}

	e.Append(fresh, "new")
	snap := e.Snapshot()
	if snap.Raw != "new" {
		t.Errorf("raw = %q, want new", snap.Raw)
	}
	if snap.Status != EvalRunning {
		t.Errorf("status = %v, want running", snap.Status)
	}
}

// Once terminal, further mutations on the same run are also rejected.
func TestEvaluationTerminalIsFinal(t *testing.T) {
	e := NewEvaluation()
	run := e.Begin()
	e.Complete(run)

	if e.Append(run, "after done") {
		t.Error("append applied after terminal")
	}
	if e.Fail(run, "after done") {
		t.Error("fail applied after terminal")
	}
}

func TestEvaluationSnapshotDisplayValues(t *testing.T) {
	e := NewEvaluation()
	run := e.Begin()
	e.Append(run, "<JSON>{\"Overall\":7,\"Relevance\":3,\"Decision\":\"Strong Accept\"}</JSON>")
	e.Complete(run)

	snap := e.Snapshot()
	if snap.Percent["overall"] != 70 {
		t.Errorf("percent[overall] = %d, want 70", snap.Percent["overall"])
	}
	if snap.Percent["relevance"] != 30 {
		t.Errorf("percent[relevance] = %d, want 30", snap.Percent["relevance"])
	}
	if snap.Percent["soundness"] != 0 {
		t.Errorf("percent[soundness] = %d, want 0 for missing score", snap.Percent["soundness"])
	}
	if snap.DecisionClass != "accept" {
		t.Errorf("decision_class = %q, want accept", snap.DecisionClass)
	}
}

func TestEvaluationThoughtExtraction(t *testing.T) {
	e := NewEvaluation()
	run := e.Begin()
	e.Append(run, "blah <THOUGHT>expert notes</THOUGHT> blah <JSON>{\"Overall\":7}</JSON>")
	e.Complete(run)

	snap := e.Snapshot()
	if snap.Thought != "expert notes" {
		t.Errorf("thought = %q, want expert notes", snap.Thought)
	}
}
