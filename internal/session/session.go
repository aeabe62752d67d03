// Package session drives a continuous-listening capability, feeding
// finalized speech into the transcript and the hint pipeline while
// surviving the capability's spontaneous terminations.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lingohint/server/domain/entities"
	"github.com/lingohint/server/domain/repositories"
	"github.com/lingohint/server/usecase"
)

// State is the speech session's lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateRestarting State = "restarting"
	StateStopped    State = "stopped"
)

// SpeechSession owns one transcript and one capture session over a
// recognizer capability. Finalized recognition results are appended to
// the transcript and each append spawns an independent pipeline pass, so
// analysis latency never blocks capture.
type SpeechSession struct {
	id         string
	recognizer repositories.SpeechRecognizer
	hints      *usecase.HintService
	transcript *entities.Transcript
	logger     *zap.Logger

	mu            sync.Mutex
	state         State
	starting      bool
	keepListening bool
	stopCh        chan struct{}

	// pipelines tracks in-flight analysis passes so tests can wait for
	// them; production callers never need to.
	pipelines sync.WaitGroup
	loopDone  chan struct{}
}

// NewSpeechSession creates an idle session over the given recognizer.
func NewSpeechSession(recognizer repositories.SpeechRecognizer, hints *usecase.HintService, logger *zap.Logger) *SpeechSession {
	id := uuid.New().String()
	return &SpeechSession{
		id:         id,
		recognizer: recognizer,
		hints:      hints,
		transcript: entities.NewTranscript(),
		logger:     logger.With(zap.String("sessionID", id)),
		state:      StateIdle,
	}
}

// ID returns the session's identifier.
func (s *SpeechSession) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *SpeechSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the full transcript accumulated so far.
func (s *SpeechSession) Transcript() string {
	return s.transcript.Text()
}

// Start begins capturing. Starting an already-listening session is
// rejected; a capability failure (permission denied) leaves the session
// Idle and is surfaced to the caller without retry.
func (s *SpeechSession) Start(ctx context.Context) error {
	// Claiming the starting flag and checking the state are one critical
	// section, so a second concurrent Start is rejected before it can
	// reach the recognizer and open a silent second capture.
	s.mu.Lock()
	if s.starting || s.state == StateListening || s.state == StateRestarting {
		s.mu.Unlock()
		return fmt.Errorf("session %s is already listening", s.id)
	}
	s.starting = true
	s.mu.Unlock()

	if err := s.recognizer.Start(ctx); err != nil {
		s.logger.Error("Failed to start capture", zap.Error(err))
		s.mu.Lock()
		s.starting = false
		s.state = StateIdle
		s.mu.Unlock()
		return fmt.Errorf("failed to start capture: %w", err)
	}

	s.mu.Lock()
	s.starting = false
	s.state = StateListening
	s.keepListening = true
	s.stopCh = make(chan struct{})
	s.loopDone = make(chan struct{})
	stopCh, loopDone := s.stopCh, s.loopDone
	s.mu.Unlock()

	go s.eventLoop(ctx, stopCh, loopDone)

	s.logger.Info("Speech session listening")
	return nil
}

// Stop ends capturing. The keep-listening flag is cleared before the
// recognizer is stopped so a trailing Ended event cannot race a restart.
// In-flight analysis passes are not cancelled; late cards still land in
// history.
func (s *SpeechSession) Stop() {
	s.mu.Lock()
	if s.state != StateListening && s.state != StateRestarting {
		s.mu.Unlock()
		return
	}
	s.keepListening = false
	s.state = StateStopped
	close(s.stopCh)
	loopDone := s.loopDone
	s.mu.Unlock()

	s.recognizer.Stop()
	<-loopDone
	s.logger.Info("Speech session stopped")
}

// eventLoop consumes recognizer events until the session stops or the
// event stream closes. Exiting on stopCh keeps a restarted session from
// ever having two readers on the same event stream.
func (s *SpeechSession) eventLoop(ctx context.Context, stopCh <-chan struct{}, loopDone chan<- struct{}) {
	defer close(loopDone)

	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-s.recognizer.Events():
			if !ok {
				return
			}
			switch event.Kind {
			case repositories.SpeechEventResult:
				if !event.IsFinal {
					continue
				}
				s.handleFinalResult(event.Text)

			case repositories.SpeechEventError:
				// Transient; capture continues or an Ended event follows.
				s.logger.Warn("Recognizer error", zap.Error(event.Err))

			case repositories.SpeechEventEnded:
				if !s.restartIfWanted(ctx) {
					return
				}
			}
		}
	}
}

// handleFinalResult appends one finalized segment and kicks off an
// independent pipeline pass over the updated transcript.
func (s *SpeechSession) handleFinalResult(text string) {
	s.transcript.Append(text)
	snapshot := s.transcript.Text()

	s.pipelines.Add(1)
	go func() {
		defer s.pipelines.Done()
		// Detached from the capture context: stopping the session does
		// not cancel analysis already under way.
		card, window := s.hints.ProcessTranscript(context.Background(), snapshot)
		if card != nil {
			s.logger.Info("Hint card recorded",
				zap.String("focus", window),
				zap.Int("errors", len(card.Errors)))
		}
	}()
}

// restartIfWanted handles a spontaneous capture termination. It returns
// false when the session should stop consuming events. Restart errors are
// swallowed: the keep-listening flag stays the source of truth and the
// next explicit Start recovers a session whose restart failed.
func (s *SpeechSession) restartIfWanted(ctx context.Context) bool {
	s.mu.Lock()
	if !s.keepListening {
		if s.state != StateStopped {
			s.state = StateStopped
		}
		s.mu.Unlock()
		return false
	}
	s.state = StateRestarting
	s.mu.Unlock()

	s.logger.Info("Capture ended, restarting")

	if err := s.recognizer.Start(ctx); err != nil {
		s.logger.Warn("Capture restart failed", zap.Error(err))
		s.mu.Lock()
		if s.state == StateRestarting {
			s.state = StateIdle
		}
		s.keepListening = false
		s.mu.Unlock()
		return false
	}

	// Stop may have raced the restart; if so, undo it.
	s.mu.Lock()
	if !s.keepListening {
		s.state = StateStopped
		s.mu.Unlock()
		s.recognizer.Stop()
		return false
	}
	s.state = StateListening
	s.mu.Unlock()
	return true
}

// WaitPipelines blocks until all in-flight analysis passes finish.
func (s *SpeechSession) WaitPipelines() {
	s.pipelines.Wait()
}
