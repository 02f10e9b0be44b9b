package services

import (
	"context"
	"errors"
)

// Custom errors for dataset collection
var (
	ErrNoFacesDetected = errors.New("no faces detected in the uploaded image")
	ErrEmptyDataset    = errors.New("no face images available")
)

// Event types published during collection runs.
const (
	EventCaptureFrame = "capture.frame"
	EventCaptureDone  = "capture.done"
)

// CaptureEvent is the per-frame progress event of a webcam collection run.
type CaptureEvent struct {
	PersonID  int    `json:"person_id"`
	Captured  int    `json:"captured"`
	Quota     int    `json:"quota"`
	FrameJPEG []byte `json:"frame_jpeg,omitempty"`
}

// Upload is one uploaded image file.
type Upload struct {
	Filename string
	Data     []byte
}

// CollectionResult summarizes one collection run.
type CollectionResult struct {
	PersonID    int    `json:"person_id"`
	DisplayName string `json:"display_name"`
	Saved       int    `json:"saved"`   // face crops written from source images/frames
	Padded      int    `json:"padded"`  // duplicates written to reach the quota
	Skipped     int    `json:"skipped"` // uploads skipped (unreadable or no face)
	Total       int    `json:"total"`   // files in the dataset folder afterwards
}

// CollectionService acquires face crops into a person's dataset folder,
// bounded by the per-person sample quota.
type CollectionService interface {
	// CollectFromUploads processes uploaded images in order. Unreadable
	// images and images without a detectable face are skipped with a
	// warning. When fewer than the quota of crops were saved, existing
	// images are duplicated cyclically until the quota is reached; if no
	// crops were saved at all the run ends with an empty folder and no
	// escalated error.
	CollectFromUploads(ctx context.Context, personID int, uploads []Upload) (*CollectionResult, error)

	// CollectFromCamera reads webcam frames and saves every detected face
	// until the quota is reached or ctx is cancelled. An annotated frame
	// event is published per processed frame. The camera is released on
	// every exit path.
	CollectFromCamera(ctx context.Context, personID int) (*CollectionResult, error)
}
