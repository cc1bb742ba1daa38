package session

import (
	"sync"
	"time"

	"github.com/DeonBratus/small-transcriptor/internal/clients"
)

// Transcription holds the last completed transcription so a reloaded page
// can re-render it without re-uploading.
type Transcription struct {
	mu       sync.Mutex
	fileName string
	segments []clients.Segment
	elapsed  time.Duration
}

// TranscriptionSnapshot is a copyable view of the last transcription.
type TranscriptionSnapshot struct {
	FileName  string            `json:"file_name"`
	Segments  []clients.Segment `json:"segments"`
	ElapsedMs int64             `json:"elapsed_ms"`
}

// NewTranscription creates an empty transcription session.
func NewTranscription() *Transcription {
	return &Transcription{}
}

// Set replaces the stored transcription wholesale.
func (t *Transcription) Set(fileName string, segments []clients.Segment, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fileName = fileName
	t.segments = segments
	t.elapsed = elapsed
}

// Snapshot returns a copy of the stored transcription. Segments is never
// nil so the result is always render-safe.
func (t *Transcription) Snapshot() TranscriptionSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	segments := t.segments
	if segments == nil {
		segments = []clients.Segment{}
	}
	return TranscriptionSnapshot{
		FileName:  t.fileName,
		Segments:  segments,
		ElapsedMs: t.elapsed.Milliseconds(),
	}
}
