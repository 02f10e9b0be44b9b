package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
)

// blockingCollection waits for context cancellation before returning.
type blockingCollection struct {
	started chan struct{}
	result  *services.CollectionResult
	err     error
}

func (c *blockingCollection) CollectFromUploads(ctx context.Context, personID int, uploads []services.Upload) (*services.CollectionResult, error) {
	return c.result, c.err
}

func (c *blockingCollection) CollectFromCamera(ctx context.Context, personID int) (*services.CollectionResult, error) {
	close(c.started)
	<-ctx.Done()
	if c.err != nil {
		return nil, c.err
	}
	if c.result != nil {
		return c.result, nil
	}
	return &services.CollectionResult{PersonID: personID}, nil
}

func TestCaptureWorkerSession(t *testing.T) {
	collection := &blockingCollection{started: make(chan struct{})}
	w := NewCaptureWorker(collection)

	sessionID, err := w.StartSession(7)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if sessionID == "" {
		t.Fatal("StartSession returned an empty session ID")
	}

	select {
	case <-collection.started:
	case <-time.After(time.Second):
		t.Fatal("collection session never started")
	}

	if !w.IsRunning() {
		t.Error("IsRunning = false while a session is active")
	}

	status := w.Status()
	if !status.Running || status.PersonID != 7 || status.SessionID != sessionID {
		t.Errorf("Status = %+v, want running session %s for person 7", status, sessionID)
	}

	// A second session is rejected while the first runs
	if _, err := w.StartSession(8); !errors.Is(err, ErrSessionRunning) {
		t.Errorf("second StartSession error = %v, want ErrSessionRunning", err)
	}

	if err := w.StopSession(); err != nil {
		t.Fatalf("StopSession: %v", err)
	}
	if w.IsRunning() {
		t.Error("IsRunning = true after StopSession")
	}

	if err := w.StopSession(); !errors.Is(err, ErrNoSession) {
		t.Errorf("StopSession with no session error = %v, want ErrNoSession", err)
	}
}

func TestCaptureWorkerRecordsFailure(t *testing.T) {
	collection := &blockingCollection{
		started: make(chan struct{}),
		err:     errors.New("camera unplugged"),
	}
	w := NewCaptureWorker(collection)

	if _, err := w.StartSession(7); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	select {
	case <-collection.started:
	case <-time.After(time.Second):
		t.Fatal("collection session never started")
	}

	if err := w.StopSession(); err != nil {
		t.Fatalf("StopSession: %v", err)
	}

	status := w.Status()
	if status.Running {
		t.Error("Status.Running = true after the session failed")
	}
	if status.LastError == "" {
		t.Error("Status.LastError is empty, want the session failure recorded")
	}
}
