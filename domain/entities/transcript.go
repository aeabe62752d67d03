package entities

import (
	"strings"
	"sync"
)

// Transcript is the append-only record of finalized speech. Segments are
// only ever added, never rewritten; readers see the joined text.
type Transcript struct {
	mu       sync.Mutex
	segments []string
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds one finalized segment. Blank segments are ignored.
func (t *Transcript) Append(segment string) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return
	}
	t.mu.Lock()
	t.segments = append(t.segments, segment)
	t.mu.Unlock()
}

// Text returns the full transcript as a single space-joined string.
func (t *Transcript) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.segments, " ")
}

// Len returns the number of finalized segments appended so far.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.segments)
}
