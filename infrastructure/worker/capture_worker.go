package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

var (
	// ErrSessionRunning is returned when a start request collides with an
	// active session.
	ErrSessionRunning = errors.New("a session is already running")
	// ErrNoSession is returned when a stop request finds no active session.
	ErrNoSession = errors.New("no session is running")
)

// SessionStatus describes the current (or most recent) camera session.
type SessionStatus struct {
	Running   bool      `json:"running"`
	SessionID string    `json:"session_id,omitempty"`
	PersonID  int       `json:"person_id,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// CaptureWorker runs at most one webcam collection session at a time.
// Progress streams out through the collection service's event publisher;
// completion and failures are also reflected in Status.
type CaptureWorker struct {
	collection services.CollectionService

	mu      sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running bool
	status  SessionStatus
}

func NewCaptureWorker(collection services.CollectionService) *CaptureWorker {
	return &CaptureWorker{collection: collection}
}

// StartSession launches a background collection session for the given
// person and returns its session ID.
func (w *CaptureWorker) StartSession(personID int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return "", ErrSessionRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	sessionID := uuid.New().String()

	w.running = true
	w.cancel = cancel
	w.status = SessionStatus{
		Running:   true,
		SessionID: sessionID,
		PersonID:  personID,
		StartedAt: time.Now(),
	}

	logger.Capture("session_started", "Capture session started", map[string]interface{}{
		"session_id": sessionID,
		"person_id":  personID,
	})

	w.wg.Add(1)
	go w.run(ctx, sessionID, personID)

	return sessionID, nil
}

func (w *CaptureWorker) run(ctx context.Context, sessionID string, personID int) {
	defer w.wg.Done()

	result, err := w.collection.CollectFromCamera(ctx, personID)

	w.mu.Lock()
	w.running = false
	w.cancel = nil
	w.status.Running = false
	if err != nil {
		w.status.LastError = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		logger.CaptureError("session_failed", "Capture session failed", err, map[string]interface{}{
			"session_id": sessionID,
			"person_id":  personID,
		})
		return
	}

	logger.Capture("session_completed", "Capture session completed", map[string]interface{}{
		"session_id": sessionID,
		"person_id":  personID,
		"saved":      result.Saved,
		"total":      result.Total,
	})
}

// StopSession cancels the active session and waits for it to wind down.
func (w *CaptureWorker) StopSession() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrNoSession
	}
	cancel := w.cancel
	sessionID := w.status.SessionID
	w.mu.Unlock()

	cancel()
	w.wg.Wait()

	logger.Capture("session_stopped", "Capture session stopped", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}

// IsRunning reports whether a session is active.
func (w *CaptureWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Status returns a snapshot of the session state.
func (w *CaptureWorker) Status() SessionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}
