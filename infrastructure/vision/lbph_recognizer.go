package vision

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// LBPHRecognizer is the gocv contrib LBPH face recognizer behind the
// Recognizer interface. The model serializes to a single YAML artifact.
type LBPHRecognizer struct {
	rec *contrib.LBPHFaceRecognizer
}

func NewLBPHRecognizer() *LBPHRecognizer {
	return &LBPHRecognizer{rec: contrib.NewLBPHFaceRecognizer()}
}

// NewLBPHRecognizerFactory returns a RecognizerFactory producing fresh
// LBPH instances.
func NewLBPHRecognizerFactory() RecognizerFactory {
	return func() (Recognizer, error) {
		return NewLBPHRecognizer(), nil
	}
}

func (r *LBPHRecognizer) Train(samples []Sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to train on")
	}

	var mats []gocv.Mat
	var labels []int
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()

	for _, s := range samples {
		m, err := gocv.IMDecode(s.Image, gocv.IMReadGrayScale)
		if err != nil || m.Empty() {
			continue
		}
		mats = append(mats, m)
		labels = append(labels, s.Label)
	}

	if len(mats) == 0 {
		return fmt.Errorf("no decodable samples to train on")
	}

	r.rec.Train(mats, labels)
	return nil
}

func (r *LBPHRecognizer) Save(path string) error {
	r.rec.SaveFile(path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("model artifact was not written to %s: %w", path, err)
	}
	return nil
}

func (r *LBPHRecognizer) Load(path string) error {
	// The backend aborts on a missing file, so check up front.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("model artifact %s not readable: %w", path, err)
	}
	r.rec.LoadFile(path)
	return nil
}

func (r *LBPHRecognizer) Predict(faceImage []byte) (Prediction, error) {
	m, err := gocv.IMDecode(faceImage, gocv.IMReadGrayScale)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer m.Close()
	if m.Empty() {
		return Prediction{}, ErrDecode
	}

	resp := r.rec.PredictExtendedResponse(m)
	return Prediction{
		Label:    int(resp.Label),
		Distance: float64(resp.Confidence),
	}, nil
}

func (r *LBPHRecognizer) Close() error {
	// The contrib recognizer has no explicit release; the handle lives for
	// the owning run and is reclaimed with the process.
	return nil
}
