package services

import (
	"context"
	"errors"
	"image"
)

// Custom errors for live recognition
var (
	ErrModelNotTrained = errors.New("no trained model found, run training first")
)

// Event types published during recognition runs.
const (
	EventRecognizeFrame   = "recognize.frame"
	EventRecognizeStopped = "recognize.stopped"
)

// Match is one classified face within a frame.
type Match struct {
	PersonID int             `json:"person_id"`
	Name     string          `json:"name"`
	Distance float64         `json:"distance"`
	Known    bool            `json:"known"`
	Rect     image.Rectangle `json:"-"`
}

// FrameEvent is the per-frame recognition output published to subscribers.
type FrameEvent struct {
	Seq       int     `json:"seq"`
	Matches   []Match `json:"matches"`
	FrameJPEG []byte  `json:"frame_jpeg,omitempty"`
}

// EventPublisher delivers workflow events (capture progress, recognition
// frames) to whoever is listening; the websocket hub implements it.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// RecognitionService runs the live recognition loop: load the trained
// model, read camera frames, classify each detected face and publish
// annotated frame events until ctx is cancelled.
type RecognitionService interface {
	// Run blocks until ctx is cancelled or a fatal error occurs. The model
	// is loaded before the camera is opened; a missing or unreadable model
	// fails fast with ErrModelNotTrained.
	Run(ctx context.Context) error
}
