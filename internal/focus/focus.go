// Package focus derives the bounded analysis window from the live
// transcript and gates redundant analysis calls.
package focus

import (
	"strings"
	"sync"
)

// Window returns the trailing maxWords whitespace-separated tokens of
// transcript, rejoined with single spaces. An empty or whitespace-only
// transcript yields "". maxWords below 1 is treated as 1.
//
// Window is pure and deterministic; the dedup gate relies on identical
// input producing identical output.
func Window(transcript string, maxWords int) string {
	if maxWords < 1 {
		maxWords = 1
	}
	words := strings.Fields(transcript)
	if len(words) == 0 {
		return ""
	}
	if len(words) > maxWords {
		words = words[len(words)-maxWords:]
	}
	return strings.Join(words, " ")
}

// NormalizeKey lowers the case of a focus window and collapses runs of
// whitespace to single spaces, producing the dedup key compared against
// the previously sent one.
func NormalizeKey(window string) string {
	return strings.ToLower(strings.Join(strings.Fields(window), " "))
}

// Gate suppresses analysis calls for focus windows identical to the last
// one sent. The read-compare-update step is a critical section: two
// concurrent pipelines must never both pass with the same key.
type Gate struct {
	mu      sync.Mutex
	lastKey string
}

// NewGate creates a gate with no remembered key.
func NewGate() *Gate {
	return &Gate{}
}

// TryAccept normalizes window and decides atomically whether an analysis
// call should be issued for it. Empty windows and windows equal to the
// last accepted one are rejected; on acceptance the remembered key is
// updated in the same critical section.
func (g *Gate) TryAccept(window string) bool {
	key := NormalizeKey(window)
	if key == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if key == g.lastKey {
		return false
	}
	g.lastKey = key
	return true
}

// Reset forgets the last accepted key, so the next window always passes.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.lastKey = ""
	g.mu.Unlock()
}
