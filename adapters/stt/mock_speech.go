package stt

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lingohint/server/domain/repositories"
)

// MockSpeechToText is a placeholder transcriber for tests and local runs.
// It can be scripted to fail, to exercise the fallback chain.
type MockSpeechToText struct {
	logger *zap.Logger

	mu     sync.Mutex
	name   string
	result string
	err    error
	calls  int
}

// NewMockSpeechToText creates a scripted mock transcriber.
func NewMockSpeechToText(name string, logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{
		logger: logger,
		name:   name,
	}
}

// SetResult scripts the next transcription results.
func (m *MockSpeechToText) SetResult(text string, err error) {
	m.mu.Lock()
	m.result = text
	m.err = err
	m.mu.Unlock()
}

// Calls returns how many transcriptions were attempted.
func (m *MockSpeechToText) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Name identifies this transcriber in logs.
func (m *MockSpeechToText) Name() string {
	return m.name
}

// TranscribeAudio implements repositories.SpeechToText.
func (m *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	m.mu.Lock()
	m.calls++
	result, err := m.result, m.err
	m.mu.Unlock()

	m.logger.Info("Processing mock speech-to-text",
		zap.String("transcriber", m.name),
		zap.Int("audioSize", len(audioData)),
		zap.String("mime", config.MimeType))

	if len(audioData) == 0 {
		return "", fmt.Errorf("empty audio chunk")
	}
	if err != nil {
		return "", err
	}
	if result != "" {
		return result, nil
	}

	// Unscripted mocks answer by chunk size, so bigger recordings look
	// like longer utterances.
	switch {
	case len(audioData) > 10000:
		return "today we will talk about animals and their habits", nil
	case len(audioData) > 1000:
		return "I has a dog", nil
	default:
		return "hello", nil
	}
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)
