package repositories

import (
	"context"

	"github.com/lingohint/server/domain/entities"
)

// HintAnalyzer abstracts the text-analysis capability that turns a focus
// window into a hint card.
//
// Implementations must never surface capability failures to callers: a
// failed or malformed analysis yields an empty card and a nil error so the
// classroom UI always receives a well-formed card. A non-nil error is
// reserved for programming mistakes (e.g. an empty focus window).
type HintAnalyzer interface {
	Analyze(ctx context.Context, focus string) (entities.HintCard, error)
}
