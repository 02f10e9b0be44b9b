package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	matchColor = color.RGBA{R: 0, G: 255, B: 0}
	missColor  = color.RGBA{R: 255, G: 0, B: 0}
	textColor  = color.RGBA{R: 255, G: 255, B: 255}
)

// FrameAnnotator draws recognition markers with gocv: a green rectangle
// for accepted matches, red for rejects, label text above the box.
type FrameAnnotator struct{}

func (FrameAnnotator) Annotate(frame []byte, marks []Mark) ([]byte, error) {
	img, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer img.Close()
	if img.Empty() {
		return nil, ErrDecode
	}

	for _, m := range marks {
		c := missColor
		if m.Positive {
			c = matchColor
		}
		gocv.Rectangle(&img, m.Rect, c, 2)
		if m.Label != "" {
			origin := image.Pt(m.Rect.Min.X, m.Rect.Min.Y-10)
			gocv.PutText(&img, m.Label, origin, gocv.FontHersheySimplex, 0.9, textColor, 2)
		}
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotated frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
