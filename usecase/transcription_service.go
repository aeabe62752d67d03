package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lingohint/server/domain/repositories"
)

const defaultAttemptTimeout = 30 * time.Second

// TranscriptionResult is the best-effort outcome of one transcription.
// Text is empty when nothing was recognized; callers must treat that as
// "no speech", not as an error.
type TranscriptionResult struct {
	Text string `json:"text"`
}

// TranscriptionService turns raw audio chunks into text through an ordered
// chain of transcription models. The chain is data: attempts run in order
// with uniform error handling, and total failure degrades to an empty
// result rather than an error, so a flaky model never breaks the session.
type TranscriptionService struct {
	chain          []repositories.SpeechToText
	attemptTimeout time.Duration
	logger         *zap.Logger
}

// NewTranscriptionService creates a service over an ordered fallback
// chain, fastest and cheapest model first.
func NewTranscriptionService(chain []repositories.SpeechToText, attemptTimeout time.Duration, logger *zap.Logger) *TranscriptionService {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &TranscriptionService{
		chain:          chain,
		attemptTimeout: attemptTimeout,
		logger:         logger,
	}
}

// Transcribe tries each transcriber in order until one succeeds. The audio
// bytes are consumed once and not retained by the service.
func (s *TranscriptionService) Transcribe(ctx context.Context, audioData []byte, config repositories.AudioConfig) TranscriptionResult {
	for _, transcriber := range s.chain {
		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		text, err := transcriber.TranscribeAudio(attemptCtx, audioData, config)
		cancel()

		if err != nil {
			s.logger.Warn("Transcription attempt failed",
				zap.String("transcriber", transcriber.Name()),
				zap.Int("audioSize", len(audioData)),
				zap.Error(err))
			continue
		}

		s.logger.Info("Transcription completed",
			zap.String("transcriber", transcriber.Name()),
			zap.Int("chars", len(text)))
		return TranscriptionResult{Text: text}
	}

	s.logger.Error("All transcription attempts failed",
		zap.Int("attempts", len(s.chain)),
		zap.Int("audioSize", len(audioData)))
	return TranscriptionResult{Text: ""}
}
