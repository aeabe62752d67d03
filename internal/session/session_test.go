package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lingohint/server/adapters/llm"
	"github.com/lingohint/server/adapters/speech"
	"github.com/lingohint/server/domain/entities"
	"github.com/lingohint/server/domain/repositories"
	"github.com/lingohint/server/internal/focus"
	"github.com/lingohint/server/internal/history"
	"github.com/lingohint/server/usecase"
)

func newTestSession(t *testing.T) (*SpeechSession, *speech.MockRecognizer, *usecase.HintService) {
	t.Helper()
	logger := zap.NewNop()
	recognizer := speech.NewMockRecognizer(logger)
	hints := usecase.NewHintService(
		llm.NewMockAnalyzer(),
		focus.NewGate(),
		history.New(20),
		usecase.HintServiceConfig{FocusWindowWords: 25},
		logger,
	)
	return NewSpeechSession(recognizer, hints, logger), recognizer, hints
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartTransitionsToListening(t *testing.T) {
	session, recognizer, _ := newTestSession(t)

	if session.State() != StateIdle {
		t.Fatalf("new session should be idle, got %s", session.State())
	}
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	if session.State() != StateListening {
		t.Errorf("expected listening, got %s", session.State())
	}
	if recognizer.Starts() != 1 {
		t.Errorf("expected one capture session, got %d", recognizer.Starts())
	}
}

func TestDoubleStartRejected(t *testing.T) {
	session, recognizer, _ := newTestSession(t)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	if err := session.Start(context.Background()); err == nil {
		t.Error("starting while listening should be rejected")
	}
	if recognizer.Starts() != 1 {
		t.Errorf("a rejected start must not open a second capture session, got %d", recognizer.Starts())
	}
}

func TestPermissionDenialIsTerminal(t *testing.T) {
	session, recognizer, _ := newTestSession(t)
	recognizer.FailStartWith(errors.New("permission denied"))

	if err := session.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail on permission denial")
	}
	if session.State() != StateIdle {
		t.Errorf("denied session should fall back to idle, got %s", session.State())
	}
	if recognizer.Listening() {
		t.Error("no capture session should be open after denial")
	}
}

func TestFinalResultFeedsTranscriptAndHistory(t *testing.T) {
	session, recognizer, hints := newTestSession(t)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	recognizer.EmitResult("I has", false) // interim, ignored
	recognizer.EmitResult("I has a dog", true)

	waitFor(t, "transcript append", func() bool {
		return session.Transcript() == "I has a dog"
	})
	session.WaitPipelines()

	cards := hints.History()
	if len(cards) != 1 {
		t.Fatalf("expected one card in history, got %d", len(cards))
	}
	if cards[0].Errors[0].Fix != "I have a dog" {
		t.Errorf("unexpected card at position 0: %+v", cards[0])
	}
}

func TestInterimResultsDoNotAccumulate(t *testing.T) {
	session, recognizer, _ := newTestSession(t)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	recognizer.EmitResult("she", false)
	recognizer.EmitResult("she is", false)
	recognizer.EmitResult("she is nice", true)

	waitFor(t, "transcript append", func() bool {
		return session.Transcript() == "she is nice"
	})
}

func TestSpontaneousEndTriggersRestart(t *testing.T) {
	session, recognizer, _ := newTestSession(t)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	recognizer.EmitEnded()

	waitFor(t, "restart", func() bool {
		return recognizer.Starts() == 2
	})
	waitFor(t, "listening state", func() bool {
		return session.State() == StateListening
	})

	// Capture keeps working after the restart.
	recognizer.EmitResult("hello again", true)
	waitFor(t, "post-restart transcript", func() bool {
		return session.Transcript() == "hello again"
	})
}

func TestStopPreventsRestartRace(t *testing.T) {
	session, recognizer, _ := newTestSession(t)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	session.Stop()
	recognizer.EmitEnded()

	// Give any (incorrect) restart a chance to happen.
	time.Sleep(50 * time.Millisecond)

	if recognizer.Starts() != 1 {
		t.Errorf("spontaneous end after stop must not restart, got %d starts", recognizer.Starts())
	}
	if session.State() != StateStopped {
		t.Errorf("expected stopped, got %s", session.State())
	}
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.Stop()
	if session.State() != StateIdle {
		t.Errorf("stopping an idle session should leave it idle, got %s", session.State())
	}
}

// slowRecognizer opens a capture session after a delay and, unlike the
// adapters mock, never rejects a second one itself: any double capture it
// counts was let through by the session.
type slowRecognizer struct {
	delay  time.Duration
	events chan repositories.SpeechEvent

	mu    sync.Mutex
	opens int
}

func newSlowRecognizer(delay time.Duration) *slowRecognizer {
	return &slowRecognizer{
		delay:  delay,
		events: make(chan repositories.SpeechEvent, 16),
	}
}

func (r *slowRecognizer) Start(ctx context.Context) error {
	time.Sleep(r.delay)
	r.mu.Lock()
	r.opens++
	r.mu.Unlock()
	return nil
}

func (r *slowRecognizer) Stop() {}

func (r *slowRecognizer) Events() <-chan repositories.SpeechEvent {
	return r.events
}

func (r *slowRecognizer) Opens() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opens
}

func TestConcurrentStartsOpenOneCaptureSession(t *testing.T) {
	logger := zap.NewNop()
	recognizer := newSlowRecognizer(100 * time.Millisecond)
	hints := usecase.NewHintService(
		llm.NewMockAnalyzer(),
		focus.NewGate(),
		history.New(20),
		usecase.HintServiceConfig{FocusWindowWords: 25},
		logger,
	)
	session := NewSpeechSession(recognizer, hints, logger)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- session.Start(context.Background())
		}()
	}
	wg.Wait()
	close(results)
	defer session.Stop()

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("exactly one concurrent Start should succeed, got %d", succeeded)
	}
	if recognizer.Opens() != 1 {
		t.Errorf("exactly one capture session should open, got %d", recognizer.Opens())
	}
	if session.State() != StateListening {
		t.Errorf("expected listening after the surviving start, got %s", session.State())
	}
}

// slowAnalyzer holds the analysis long enough for the session to stop
// underneath it.
type slowAnalyzer struct {
	delay time.Duration
}

func (a *slowAnalyzer) Analyze(ctx context.Context, focusWindow string) (entities.HintCard, error) {
	time.Sleep(a.delay)
	card := entities.NewEmptyCard()
	card.Errors = append(card.Errors, entities.ErrorItem{
		Title:       "Grammar mistake",
		Wrong:       focusWindow,
		Fix:         "I have a dog",
		Explanation: "Use 'have' with 'I'.",
	})
	return card, nil
}

func TestResultArrivingAfterStopStillRecorded(t *testing.T) {
	logger := zap.NewNop()
	recognizer := speech.NewMockRecognizer(logger)
	hints := usecase.NewHintService(
		&slowAnalyzer{delay: 100 * time.Millisecond},
		focus.NewGate(),
		history.New(20),
		usecase.HintServiceConfig{FocusWindowWords: 25},
		logger,
	)
	session := NewSpeechSession(recognizer, hints, logger)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	recognizer.EmitResult("I has a dog", true)
	waitFor(t, "transcript append", func() bool {
		return session.Transcript() == "I has a dog"
	})

	// Stop while the analysis is still in flight.
	session.Stop()
	if session.State() != StateStopped {
		t.Fatalf("expected stopped, got %s", session.State())
	}

	session.WaitPipelines()

	cards := hints.History()
	if len(cards) != 1 {
		t.Fatalf("late analysis result should still land in history, got %d cards", len(cards))
	}
	if cards[0].Errors[0].Fix != "I have a dog" {
		t.Errorf("unexpected card recorded after stop: %+v", cards[0])
	}
}

func TestRestartFailureLeavesSessionIdle(t *testing.T) {
	session, recognizer, _ := newTestSession(t)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	recognizer.FailStartWith(errors.New("capability unavailable"))
	recognizer.EmitEnded()

	waitFor(t, "idle after failed restart", func() bool {
		return session.State() == StateIdle
	})

	// An explicit start recovers the session once the capability is back.
	recognizer.FailStartWith(nil)
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("restart after recovery failed: %v", err)
	}
	session.Stop()
}
