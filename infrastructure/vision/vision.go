// Package vision wraps the computer-vision backend behind small
// interfaces so the workflow services never touch the underlying library:
// detection returns rectangles and crops, the recognizer maps a face image
// to a numeric label plus a distance score, and the camera yields encoded
// frames. The shipped implementations are gocv-backed (Haar cascade
// detection, LBPH recognition, V4L video capture).
package vision

import (
	"errors"
	"image"
)

// ErrDecode is returned when image bytes cannot be decoded.
var ErrDecode = errors.New("unable to decode image")

// ErrNoFrame is returned when the camera produced no frame.
var ErrNoFrame = errors.New("failed to capture frame")

// DetectedFace is one face found in an image: its rectangle in the source
// frame and the grayscale JPEG crop of that region.
type DetectedFace struct {
	Rect image.Rectangle
	Crop []byte
}

// Detector finds faces in an encoded image.
type Detector interface {
	DetectFaces(imageData []byte) ([]DetectedFace, error)
	Close() error
}

// Sample is one labeled training image (encoded grayscale face crop).
type Sample struct {
	Image []byte
	Label int
}

// Prediction is the recognizer's answer for one face image.
type Prediction struct {
	Label    int
	Distance float64
}

// Recognizer is a trainable face classifier persisted as a single model
// artifact.
type Recognizer interface {
	Train(samples []Sample) error
	Save(path string) error
	Load(path string) error
	Predict(faceImage []byte) (Prediction, error)
	Close() error
}

// RecognizerFactory produces a fresh recognizer instance per training or
// recognition run.
type RecognizerFactory func() (Recognizer, error)

// Camera is an open video capture handle.
type Camera interface {
	// Read returns the next frame as encoded JPEG.
	Read() ([]byte, error)
	Close() error
}

// CameraSource opens the camera; each capture or recognition session holds
// the handle for its lifetime and must close it on every exit path.
type CameraSource interface {
	Open() (Camera, error)
}

// Mark is one overlay drawn onto a frame.
type Mark struct {
	Rect     image.Rectangle
	Label    string
	Positive bool
}

// Annotator draws detection/recognition markers onto an encoded frame.
type Annotator interface {
	Annotate(frame []byte, marks []Mark) ([]byte, error)
}
