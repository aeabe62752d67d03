package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/lingohint/server/domain/repositories"
)

// webmOpusSampleRate is what browsers record MediaRecorder webm/opus at.
const webmOpusSampleRate = 48000

// GoogleSpeechToText implements SpeechToText for Google Cloud. It is the
// broadly-available fallback link of the transcription chain.
type GoogleSpeechToText struct{}

// NewGoogleSpeechToText creates the Google Cloud Speech transcriber.
// Credentials come from the ambient Google Cloud environment.
func NewGoogleSpeechToText() *GoogleSpeechToText {
	return &GoogleSpeechToText{}
}

// Name identifies this transcriber in logs.
func (g *GoogleSpeechToText) Name() string {
	return "google-cloud-speech"
}

// TranscribeAudio converts one audio chunk to text using the synchronous
// Recognize API. The declared mime type picks the container encoding; the
// audio bytes are handed to the API directly and not retained.
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", fmt.Errorf("empty audio chunk")
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	recognitionConfig, err := recognitionConfigForMime(config.MimeType, config.Language)
	if err != nil {
		return "", err
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: recognitionConfig,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			if transcript.Len() > 0 {
				transcript.WriteString(" ")
			}
			transcript.WriteString(result.Alternatives[0].Transcript)
		}
	}

	return strings.TrimSpace(transcript.String()), nil
}

// recognitionConfigForMime maps a declared mime type to the Google Speech
// API encoding. WAV carries its sample rate in the header, so only the
// webm/opus path pins one.
func recognitionConfigForMime(mimeType, language string) (*speechpb.RecognitionConfig, error) {
	config := &speechpb.RecognitionConfig{}

	switch mimeType {
	case "audio/wav", "audio/x-wav":
		config.Encoding = speechpb.RecognitionConfig_LINEAR16
	case "", "audio/webm", "audio/webm;codecs=opus":
		config.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		config.SampleRateHertz = webmOpusSampleRate
	case "audio/ogg", "audio/ogg;codecs=opus":
		config.Encoding = speechpb.RecognitionConfig_OGG_OPUS
		config.SampleRateHertz = webmOpusSampleRate
	case "audio/flac":
		config.Encoding = speechpb.RecognitionConfig_FLAC
	default:
		return nil, fmt.Errorf("unsupported audio mime type: %s", mimeType)
	}

	if language != "" {
		config.LanguageCode = canonicalLanguage(language)
	} else {
		// The v1 API requires a language code; English with alternatives
		// stands in for auto-detect.
		config.LanguageCode = "en-US"
		config.AlternativeLanguageCodes = []string{"es-ES", "fr-FR", "de-DE"}
	}

	return config, nil
}

// canonicalLanguage widens bare ISO-639 hints to the BCP-47 codes the
// Speech API expects.
func canonicalLanguage(language string) string {
	switch language {
	case "en":
		return "en-US"
	case "es":
		return "es-ES"
	case "fr":
		return "fr-FR"
	case "de":
		return "de-DE"
	case "ru":
		return "ru-RU"
	default:
		return language
	}
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)
