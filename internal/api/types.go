package api

import "github.com/lingohint/server/domain/entities"

// HintsRequest represents the request payload for hint analysis. Either
// the teacher/student pair or the raw text form may be used.
type HintsRequest struct {
	Teacher string `json:"teacher"`
	Student string `json:"student"`
	Text    string `json:"text"`
}

// HintsResponse represents the hint analysis response. Card is null when
// the input was unusable or the resulting card was empty.
type HintsResponse struct {
	Card  *entities.HintCard `json:"card"`
	Focus string             `json:"focus,omitempty"`
}

// STTRequest represents the request payload for server-side transcription
type STTRequest struct {
	AudioBase64 string `json:"audioBase64" validate:"required"`
	Mime        string `json:"mime"`
}

// STTResponse carries the best-effort transcript; empty when no speech
// was recognized.
type STTResponse struct {
	Text string `json:"text"`
}

// HistoryResponse lists the recorded cards, newest first.
type HistoryResponse struct {
	Cards []entities.HintCard `json:"cards"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
