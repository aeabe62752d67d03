package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/lingohint/server/domain/entities"
	"github.com/lingohint/server/domain/repositories"
)

// MockAnalyzer is a placeholder hint analyzer for tests and local runs
// without an API key.
type MockAnalyzer struct {
	mu    sync.Mutex
	calls []string
}

// NewMockAnalyzer creates a new mock analyzer
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// Analyze implements repositories.HintAnalyzer with canned cards keyed on
// obvious mistakes in the focus window.
func (m *MockAnalyzer) Analyze(ctx context.Context, focus string) (entities.HintCard, error) {
	m.mu.Lock()
	m.calls = append(m.calls, focus)
	m.mu.Unlock()

	card := entities.NewEmptyCard()
	lower := strings.ToLower(focus)

	if strings.Contains(lower, "i has") {
		card.Errors = append(card.Errors, entities.ErrorItem{
			Title:       "Grammar mistake",
			Wrong:       "I has a dog",
			Fix:         "I have a dog",
			Explanation: "Use 'have' with 'I'.",
		})
	}
	if strings.Contains(lower, "dog") {
		card.Definitions = append(card.Definitions, entities.Definition{
			Word:      "dog",
			Pos:       "noun",
			SimpleDef: "a common animal that people keep as a pet",
		})
		card.Synonyms = append(card.Synonyms, entities.Synonym{
			Word: "dog",
			Pos:  "noun",
			List: []string{"puppy", "hound"},
		})
	}

	return card, nil
}

// Calls returns the focus windows analyzed so far.
func (m *MockAnalyzer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

var _ repositories.HintAnalyzer = (*MockAnalyzer)(nil)
