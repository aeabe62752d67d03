package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lingohint/server/adapters/stt"
	"github.com/lingohint/server/domain/repositories"
)

func TestFallbackToSecondTranscriber(t *testing.T) {
	logger := zap.NewNop()
	primary := stt.NewMockSpeechToText("primary", logger)
	primary.SetResult("", errors.New("quota exceeded"))
	fallback := stt.NewMockSpeechToText("fallback", logger)
	fallback.SetResult("I has a dog", nil)

	service := NewTranscriptionService(
		[]repositories.SpeechToText{primary, fallback},
		time.Second,
		logger,
	)

	result := service.Transcribe(context.Background(), []byte("fake-webm-bytes"), repositories.AudioConfig{MimeType: "audio/webm"})
	if result.Text != "I has a dog" {
		t.Errorf("expected fallback result, got %q", result.Text)
	}
	if primary.Calls() != 1 || fallback.Calls() != 1 {
		t.Errorf("expected one call each, got primary=%d fallback=%d", primary.Calls(), fallback.Calls())
	}
}

func TestPrimarySuccessSkipsFallback(t *testing.T) {
	logger := zap.NewNop()
	primary := stt.NewMockSpeechToText("primary", logger)
	primary.SetResult("hello class", nil)
	fallback := stt.NewMockSpeechToText("fallback", logger)

	service := NewTranscriptionService(
		[]repositories.SpeechToText{primary, fallback},
		time.Second,
		logger,
	)

	result := service.Transcribe(context.Background(), []byte("fake-webm-bytes"), repositories.AudioConfig{MimeType: "audio/webm"})
	if result.Text != "hello class" {
		t.Errorf("expected primary result, got %q", result.Text)
	}
	if fallback.Calls() != 0 {
		t.Errorf("fallback should not run when primary succeeds, got %d calls", fallback.Calls())
	}
}

func TestAllTranscribersFailingDegradesToEmptyText(t *testing.T) {
	logger := zap.NewNop()
	primary := stt.NewMockSpeechToText("primary", logger)
	primary.SetResult("", errors.New("unavailable"))
	fallback := stt.NewMockSpeechToText("fallback", logger)
	fallback.SetResult("", errors.New("timeout"))

	service := NewTranscriptionService(
		[]repositories.SpeechToText{primary, fallback},
		time.Second,
		logger,
	)

	result := service.Transcribe(context.Background(), []byte("fake-webm-bytes"), repositories.AudioConfig{MimeType: "audio/webm"})
	if result.Text != "" {
		t.Errorf("total failure must degrade to empty text, got %q", result.Text)
	}
}

func TestZeroByteAudioDegradesToEmptyText(t *testing.T) {
	logger := zap.NewNop()
	primary := stt.NewMockSpeechToText("primary", logger)
	fallback := stt.NewMockSpeechToText("fallback", logger)

	service := NewTranscriptionService(
		[]repositories.SpeechToText{primary, fallback},
		time.Second,
		logger,
	)

	result := service.Transcribe(context.Background(), []byte{}, repositories.AudioConfig{MimeType: "audio/webm"})
	if result.Text != "" {
		t.Errorf("zero-byte audio must yield empty text, got %q", result.Text)
	}
}

func TestEmptyChainDegradesToEmptyText(t *testing.T) {
	service := NewTranscriptionService(nil, time.Second, zap.NewNop())
	result := service.Transcribe(context.Background(), []byte("bytes"), repositories.AudioConfig{})
	if result.Text != "" {
		t.Errorf("empty chain must yield empty text, got %q", result.Text)
	}
}
