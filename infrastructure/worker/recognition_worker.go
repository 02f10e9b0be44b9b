package worker

import (
	"context"
	"sync"
	"time"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

// RecognitionWorker runs at most one live recognition session at a time.
// Annotated frames stream out through the recognition service's event
// publisher.
type RecognitionWorker struct {
	recognition services.RecognitionService

	mu      sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running bool
	status  SessionStatus
}

func NewRecognitionWorker(recognition services.RecognitionService) *RecognitionWorker {
	return &RecognitionWorker{recognition: recognition}
}

// Start launches a background recognition session. It fails fast with
// ErrSessionRunning when one is already active; model and camera errors
// surface asynchronously through Status and the event stream.
func (w *RecognitionWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrSessionRunning
	}

	ctx, cancel := context.WithCancel(context.Background())

	w.running = true
	w.cancel = cancel
	w.status = SessionStatus{
		Running:   true,
		StartedAt: time.Now(),
	}

	logger.Recognize("session_started", "Recognition session started", nil)

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

func (w *RecognitionWorker) run(ctx context.Context) {
	defer w.wg.Done()

	err := w.recognition.Run(ctx)

	w.mu.Lock()
	w.running = false
	w.cancel = nil
	w.status.Running = false
	if err != nil {
		w.status.LastError = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		logger.RecognizeError("session_failed", "Recognition session failed", err, nil)
		return
	}
	logger.Recognize("session_completed", "Recognition session completed", nil)
}

// Stop cancels the active session and waits for it to wind down.
func (w *RecognitionWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrNoSession
	}
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()

	logger.Recognize("session_stopped", "Recognition session stopped", nil)
	return nil
}

// IsRunning reports whether a session is active.
func (w *RecognitionWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Status returns a snapshot of the session state.
func (w *RecognitionWorker) Status() SessionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}
