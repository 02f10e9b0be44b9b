package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Detection parameters carried over from the tuned defaults for frontal
// face cascades.
const (
	detectScaleFactor  = 1.3
	detectMinNeighbors = 5
)

// CascadeDetector detects faces with an OpenCV Haar cascade classifier.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
}

func NewCascadeDetector(cascadeFile string) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadeFile) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load face cascade from %s", cascadeFile)
	}
	return &CascadeDetector{classifier: classifier}, nil
}

func (d *CascadeDetector) DetectFaces(imageData []byte) ([]DetectedFace, error) {
	img, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer img.Close()
	if img.Empty() {
		return nil, ErrDecode
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rects := d.classifier.DetectMultiScaleWithParams(
		gray, detectScaleFactor, detectMinNeighbors, 0, image.Point{}, image.Point{})

	var faces []DetectedFace
	for _, r := range rects {
		region := gray.Region(r)
		buf, err := gocv.IMEncode(gocv.JPEGFileExt, region)
		region.Close()
		if err != nil {
			continue
		}
		crop := make([]byte, len(buf.GetBytes()))
		copy(crop, buf.GetBytes())
		buf.Close()

		faces = append(faces, DetectedFace{Rect: r, Crop: crop})
	}

	return faces, nil
}

func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}
