package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeAudio converts audio data to text
	TranscribeAudio(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
	// Name identifies the model behind this transcriber, for logging
	Name() string
}

// AudioConfig represents audio configuration for speech recognition
type AudioConfig struct {
	// MimeType is the declared container of the audio bytes,
	// e.g. "audio/webm" or "audio/wav".
	MimeType string `json:"mime_type"`
	// Language is a BCP-47 hint; empty means auto-detect.
	Language string `json:"language"`
}
