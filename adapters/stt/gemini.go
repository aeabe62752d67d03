package stt

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/lingohint/server/domain/repositories"
)

const defaultTranscriptionModel = "gemini-2.0-flash"

// GeminiSpeechToText implements SpeechToText on the Gemini API, passing
// the audio chunk as inline data. It shares the analysis credential, so it
// is the fast first link of the transcription chain.
type GeminiSpeechToText struct {
	client *genai.Client
	model  string
}

// NewGeminiSpeechToText creates a Gemini-backed transcriber.
func NewGeminiSpeechToText(apiKey, model string) (*GeminiSpeechToText, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = defaultTranscriptionModel
	}

	return &GeminiSpeechToText{
		client: client,
		model:  model,
	}, nil
}

// Name identifies this transcriber in logs.
func (g *GeminiSpeechToText) Name() string {
	return "gemini:" + g.model
}

// TranscribeAudio converts one audio chunk to text. The chunk is sent as
// an inline-data part and not retained anywhere after the call.
func (g *GeminiSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", fmt.Errorf("empty audio chunk")
	}

	mimeType := config.MimeType
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	instruction := "Transcribe this audio verbatim. Respond with the transcript text only, no commentary. If no speech is audible, respond with an empty string."
	if config.Language != "" {
		instruction = fmt.Sprintf("Transcribe this audio verbatim; the speech is in %q. Respond with the transcript text only, no commentary. If no speech is audible, respond with an empty string.", config.Language)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(audioData, mimeType),
		}, genai.RoleUser),
	}
	generateConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, generateConfig)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("no transcription candidates returned")
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return strings.TrimSpace(text), nil
}

var _ repositories.SpeechToText = (*GeminiSpeechToText)(nil)
