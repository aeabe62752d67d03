package speech

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lingohint/server/domain/repositories"
)

// MockRecognizer is a scripted continuous-listening capability. The real
// capability lives in the browser; this stand-in lets the session state
// machine be driven from tests and local runs.
type MockRecognizer struct {
	logger *zap.Logger

	mu        sync.Mutex
	listening bool
	startErr  error
	starts    int
	stops     int

	events chan repositories.SpeechEvent
}

// NewMockRecognizer creates a recognizer whose events are pushed by hand.
func NewMockRecognizer(logger *zap.Logger) *MockRecognizer {
	return &MockRecognizer{
		logger: logger,
		events: make(chan repositories.SpeechEvent, 16),
	}
}

// FailStartWith scripts Start to fail, simulating a permission denial.
func (m *MockRecognizer) FailStartWith(err error) {
	m.mu.Lock()
	m.startErr = err
	m.mu.Unlock()
}

// Start implements repositories.SpeechRecognizer.
func (m *MockRecognizer) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	if m.listening {
		return fmt.Errorf("capture already active")
	}
	m.listening = true
	m.starts++
	m.logger.Debug("Mock recognizer started", zap.Int("starts", m.starts))
	return nil
}

// Stop implements repositories.SpeechRecognizer.
func (m *MockRecognizer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listening = false
	m.stops++
}

// Events implements repositories.SpeechRecognizer.
func (m *MockRecognizer) Events() <-chan repositories.SpeechEvent {
	return m.events
}

// EmitResult feeds one recognition result into the event stream.
func (m *MockRecognizer) EmitResult(text string, isFinal bool) {
	m.events <- repositories.SpeechEvent{
		Kind:    repositories.SpeechEventResult,
		Text:    text,
		IsFinal: isFinal,
	}
}

// EmitEnded simulates the capability terminating on its own, the way the
// browser recognizer does on silence.
func (m *MockRecognizer) EmitEnded() {
	m.mu.Lock()
	m.listening = false
	m.mu.Unlock()
	m.events <- repositories.SpeechEvent{Kind: repositories.SpeechEventEnded}
}

// EmitError feeds a transient recognizer error into the event stream.
func (m *MockRecognizer) EmitError(err error) {
	m.events <- repositories.SpeechEvent{Kind: repositories.SpeechEventError, Err: err}
}

// Starts returns how many capture sessions were opened.
func (m *MockRecognizer) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Listening reports whether a capture session is currently open.
func (m *MockRecognizer) Listening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listening
}

var _ repositories.SpeechRecognizer = (*MockRecognizer)(nil)
