package api

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lingohint/server/domain/repositories"
	"github.com/lingohint/server/usecase"
)

// Handler wires the hint and transcription pipelines to HTTP.
type Handler struct {
	hints         *usecase.HintService
	transcription *usecase.TranscriptionService
	sttLanguage   string
	logger        *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	hints *usecase.HintService,
	transcription *usecase.TranscriptionService,
	sttLanguage string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		hints:         hints,
		transcription: transcription,
		sttLanguage:   sttLanguage,
		logger:        logger,
	}
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handler, clientDir string) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "lingohint-server",
		})
	})

	apiGroup := e.Group("/api")
	apiGroup.POST("/hints", h.postHints)
	apiGroup.POST("/stt_student", h.postSTTStudent)
	apiGroup.GET("/history", h.getHistory)

	// Static classroom UI with SPA fallback, when a client dir is set.
	if clientDir != "" {
		e.GET("/*", func(c echo.Context) error {
			name := filepath.Join(clientDir, filepath.Clean("/"+c.Param("*")))
			if info, err := os.Stat(name); err == nil && !info.IsDir() {
				return c.File(name)
			}
			return c.File(filepath.Join(clientDir, "teacher.html"))
		})
	}
}

// postHints joins the submitted speech, derives the focus window and runs
// the analysis pipeline. Duplicate windows and empty cards yield a null
// card; analysis failures never produce a non-2xx response.
func (h *Handler) postHints(c echo.Context) error {
	var req HintsRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Failed to bind hints request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	input := strings.TrimSpace(req.Text)
	if input == "" {
		input = strings.TrimSpace(req.Teacher + " " + req.Student)
	}
	if input == "" {
		return c.JSON(http.StatusOK, HintsResponse{Card: nil})
	}

	card, window := h.hints.ProcessTranscript(c.Request().Context(), input)
	return c.JSON(http.StatusOK, HintsResponse{Card: card, Focus: window})
}

// postSTTStudent decodes the base64 audio chunk and transcribes it
// through the fallback chain. Only missing or undecodable audio is a
// client error; transcription failure degrades to empty text.
func (h *Handler) postSTTStudent(c echo.Context) error {
	var req STTRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Failed to bind stt request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.AudioBase64 == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_audio",
			Message: "audioBase64 is required",
		})
	}

	audioData, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		h.logger.Warn("Failed to decode audio payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_audio",
			Message: "audioBase64 is not valid base64",
		})
	}

	result := h.transcription.Transcribe(c.Request().Context(), audioData, repositories.AudioConfig{
		MimeType: req.Mime,
		Language: h.sttLanguage,
	})

	return c.JSON(http.StatusOK, STTResponse{Text: result.Text})
}

// getHistory returns the bounded card history, newest first, so the UI
// can re-render its three columns after a reload.
func (h *Handler) getHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, HistoryResponse{Cards: h.hints.History()})
}
