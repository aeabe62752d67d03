package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/lingohint/server/adapters/llm"
	"github.com/lingohint/server/adapters/stt"
	"github.com/lingohint/server/domain/repositories"
	"github.com/lingohint/server/internal/api"
	"github.com/lingohint/server/internal/config"
	"github.com/lingohint/server/internal/focus"
	"github.com/lingohint/server/internal/history"
	"github.com/lingohint/server/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	// Initialize adapters
	analyzer, err := llm.NewGeminiAnalyzer(llm.GeminiConfig{
		APIKey:         cfg.GeminiAPIKey,
		Model:          cfg.HintModel,
		TimeoutSeconds: cfg.AnalyzeTimeoutSeconds,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create hint analyzer", zap.Error(err))
	}

	geminiSTT, err := stt.NewGeminiSpeechToText(cfg.GeminiAPIKey, cfg.STTModel)
	if err != nil {
		logger.Fatal("Failed to create Gemini transcriber", zap.Error(err))
	}
	// Fast model first, broadly-available Google Cloud fallback second.
	chain := []repositories.SpeechToText{geminiSTT, stt.NewGoogleSpeechToText()}

	// Initialize usecase services
	hintService := usecase.NewHintService(
		analyzer,
		focus.NewGate(),
		history.New(cfg.HistoryCapacity),
		usecase.HintServiceConfig{
			FocusWindowWords: cfg.FocusWindowWords,
			KeepEmptyCards:   cfg.KeepEmptyCards,
		},
		logger,
	)
	transcriptionService := usecase.NewTranscriptionService(
		chain,
		time.Duration(cfg.STTTimeoutSeconds)*time.Second,
		logger,
	)

	// Initialize API routes
	handler := api.NewHandler(hintService, transcriptionService, cfg.STTLanguage, logger)
	api.InitRoutes(e, handler, cfg.ClientDir)

	// Start server
	address := cfg.Host + ":" + cfg.Port

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Hint server started",
		zap.String("local", fmt.Sprintf("http://localhost:%s/", cfg.Port)),
		zap.Strings("lan", lanURLs(cfg.Port)))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// lanURLs lists the server's reachable URLs on non-loopback IPv4
// interfaces, so the teacher can open the UI from a classroom device.
func lanURLs(port string) []string {
	var urls []string
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return urls
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			urls = append(urls, fmt.Sprintf("http://%s:%s/", ip4, port))
		}
	}
	return urls
}
