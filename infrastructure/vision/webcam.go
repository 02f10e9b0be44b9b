package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// WebcamSource opens a V4L video capture device.
type WebcamSource struct {
	DeviceID int
}

func (s WebcamSource) Open() (Camera, error) {
	capture, err := gocv.OpenVideoCapture(s.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera device %d: %w", s.DeviceID, err)
	}
	return &webcam{capture: capture, frame: gocv.NewMat()}, nil
}

type webcam struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

func (w *webcam) Read() ([]byte, error) {
	if ok := w.capture.Read(&w.frame); !ok || w.frame.Empty() {
		return nil, ErrNoFrame
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func (w *webcam) Close() error {
	w.frame.Close()
	return w.capture.Close()
}
