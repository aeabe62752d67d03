package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/lingohint/server/domain/entities"
	"github.com/lingohint/server/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.2
	defaultMaxTokens      = 1024
	defaultTimeoutSeconds = 20
)

// hintPrompt constrains the model to strict JSON with exactly the three
// card sections and bounded cardinality, to keep latency and cost low.
const hintPrompt = `You are a concise English-teaching assistant. From the input text, produce JSON with exactly this shape:
{
  "errors": [{"title": "...", "wrong": "...", "fix": "...", "explanation": "..."}],
  "definitions": [{"word": "...", "pos": "noun|verb|adj", "simple_def": "..."}],
  "synonyms": [{"word": "...", "pos": "noun|verb|adj", "list": ["...", "..."]}]
}
Limits: at most 2 errors, 1-3 definitions, 1-3 synonyms.
Keep it short. Use simple English. Pick a few relevant nouns/verbs/adjectives.
Input: """%s"""`

// GeminiAnalyzer implements HintAnalyzer using Google's Gemini API
type GeminiAnalyzer struct {
	client         *genai.Client
	logger         *zap.Logger
	model          string
	temperature    float32
	timeoutSeconds int
}

// GeminiConfig carries the tunables for the Gemini analyzer.
type GeminiConfig struct {
	APIKey         string
	Model          string
	Temperature    float32
	TimeoutSeconds int
}

// NewGeminiAnalyzer creates a new Gemini-backed hint analyzer
func NewGeminiAnalyzer(config GeminiConfig, logger *zap.Logger) (*GeminiAnalyzer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}
	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &GeminiAnalyzer{
		client:         client,
		logger:         logger,
		model:          model,
		temperature:    temperature,
		timeoutSeconds: timeoutSeconds,
	}, nil
}

// Analyze sends a focus window for analysis and returns a normalized hint
// card. Capability failures are logged and degrade to an empty card with a
// nil error; the classroom UI must always receive a well-formed card.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, focus string) (entities.HintCard, error) {
	if strings.TrimSpace(focus) == "" {
		return entities.NewEmptyCard(), fmt.Errorf("empty focus window")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(hintPrompt, focus), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  int32(defaultMaxTokens),
		ResponseMIMEType: "application/json",
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}

		g.logger.Warn("Failed to generate hints, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}

	if err != nil {
		g.logger.Error("Hint analysis failed", zap.Error(err))
		return entities.NewEmptyCard(), nil // Degrade to empty card instead of error
	}

	responseText := extractText(response)
	if responseText == "" {
		g.logger.Warn("Empty analysis response", zap.String("model", g.model))
		return entities.NewEmptyCard(), nil
	}

	card := ParseCard([]byte(responseText), g.logger)

	g.logger.Info("Focus window analyzed",
		zap.String("focus", focus),
		zap.Int("errors", len(card.Errors)),
		zap.Int("definitions", len(card.Definitions)),
		zap.Int("synonyms", len(card.Synonyms)))

	return card, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

// ParseCard turns raw model output into a hint card. Each of the three
// sections is defaulted independently: a payload with valid errors but a
// malformed synonyms field still yields the errors. Malformed payloads
// never produce an error, only a (possibly empty) card.
func ParseCard(raw []byte, logger *zap.Logger) entities.HintCard {
	card := entities.NewEmptyCard()

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Warn("Analysis output is not a JSON object", zap.Error(err))
		return card
	}

	if field, ok := payload["errors"]; ok {
		var errs []entities.ErrorItem
		if err := json.Unmarshal(field, &errs); err != nil {
			logger.Warn("Malformed errors field in analysis output", zap.Error(err))
		} else if errs != nil {
			card.Errors = errs
		}
	}
	if field, ok := payload["definitions"]; ok {
		var defs []entities.Definition
		if err := json.Unmarshal(field, &defs); err != nil {
			logger.Warn("Malformed definitions field in analysis output", zap.Error(err))
		} else if defs != nil {
			card.Definitions = defs
		}
	}
	if field, ok := payload["synonyms"]; ok {
		var syns []entities.Synonym
		if err := json.Unmarshal(field, &syns); err != nil {
			logger.Warn("Malformed synonyms field in analysis output", zap.Error(err))
		} else if syns != nil {
			card.Synonyms = syns
		}
	}

	return card
}

var _ repositories.HintAnalyzer = (*GeminiAnalyzer)(nil)
