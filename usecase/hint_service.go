package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/lingohint/server/domain/entities"
	"github.com/lingohint/server/domain/repositories"
	"github.com/lingohint/server/internal/focus"
	"github.com/lingohint/server/internal/history"
)

// HintServiceConfig carries the pipeline tunables.
type HintServiceConfig struct {
	// FocusWindowWords bounds the trailing transcript slice sent for
	// analysis.
	FocusWindowWords int
	// KeepEmptyCards pushes fully empty cards to history so the UI can
	// always render the three-column structure.
	KeepEmptyCards bool
}

// HintService orchestrates the transcript-to-hint pipeline: derive the
// focus window, pass the dedup gate, analyze, record the card. One gate
// and one history serve the whole session.
type HintService struct {
	analyzer repositories.HintAnalyzer
	gate     *focus.Gate
	history  *history.CardHistory
	config   HintServiceConfig
	logger   *zap.Logger
}

// NewHintService creates the pipeline service.
func NewHintService(
	analyzer repositories.HintAnalyzer,
	gate *focus.Gate,
	cardHistory *history.CardHistory,
	config HintServiceConfig,
	logger *zap.Logger,
) *HintService {
	if config.FocusWindowWords < 1 {
		config.FocusWindowWords = 25
	}
	return &HintService{
		analyzer: analyzer,
		gate:     gate,
		history:  cardHistory,
		config:   config,
		logger:   logger,
	}
}

// ProcessTranscript runs one pipeline pass over the current transcript.
// It returns the focus window that was considered and the resulting card,
// or a nil card when the input was empty, the window was a duplicate, or
// the card came back empty and empty cards are suppressed.
//
// Analysis failures never surface here: the analyzer degrades to an empty
// card, which this method then treats like any other empty card.
func (s *HintService) ProcessTranscript(ctx context.Context, transcript string) (*entities.HintCard, string) {
	window := focus.Window(transcript, s.config.FocusWindowWords)
	if window == "" {
		return nil, ""
	}

	if !s.gate.TryAccept(window) {
		s.logger.Debug("Focus window unchanged, skipping analysis",
			zap.String("focus", window))
		return nil, window
	}

	card, err := s.analyzer.Analyze(ctx, window)
	if err != nil {
		s.logger.Warn("Analyzer rejected focus window", zap.Error(err))
		return nil, window
	}
	card.Normalize()

	if card.IsEmpty() && !s.config.KeepEmptyCards {
		s.logger.Debug("Suppressing empty card", zap.String("focus", window))
		return nil, window
	}

	s.history.Push(card)
	return &card, window
}

// History exposes the recorded cards, newest first.
func (s *HintService) History() []entities.HintCard {
	return s.history.Items()
}
