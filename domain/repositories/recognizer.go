package repositories

import "context"

// SpeechEventKind discriminates recognizer events.
type SpeechEventKind string

const (
	// SpeechEventResult carries a recognized piece of speech.
	SpeechEventResult SpeechEventKind = "result"
	// SpeechEventEnded signals that the capture session terminated on its
	// own, typically on silence. The session decides whether to restart.
	SpeechEventEnded SpeechEventKind = "ended"
	// SpeechEventError carries a transient recognizer error.
	SpeechEventError SpeechEventKind = "error"
)

// SpeechEvent is one event from a continuous-listening capability.
type SpeechEvent struct {
	Kind    SpeechEventKind
	Text    string
	IsFinal bool
	Err     error
}

// SpeechRecognizer abstracts a host-provided continuous-listening
// capability. It is consumed, never reimplemented: Start may fail with a
// permission denial, Events delivers interim and final results plus an
// Ended signal when the capability terminates spontaneously.
type SpeechRecognizer interface {
	// Start begins a capture session. Returns an error when the capability
	// is unavailable or permission is denied.
	Start(ctx context.Context) error
	// Stop ends the current capture session. Safe to call when idle.
	Stop()
	// Events returns the recognizer's event stream. The channel stays open
	// for the lifetime of the recognizer, across restarts.
	Events() <-chan SpeechEvent
}
