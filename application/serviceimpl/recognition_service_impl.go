package serviceimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/vision"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

const unknownName = "Unknown"

type RecognitionServiceImpl struct {
	personService services.PersonService
	detector      vision.Detector
	camera        vision.CameraSource
	annotator     vision.Annotator
	newRecognizer vision.RecognizerFactory
	events        services.EventPublisher // optional
	modelPath     string
	threshold     float64
}

func NewRecognitionService(
	personService services.PersonService,
	detector vision.Detector,
	camera vision.CameraSource,
	annotator vision.Annotator,
	newRecognizer vision.RecognizerFactory,
	events services.EventPublisher,
	modelPath string,
	threshold float64,
) services.RecognitionService {
	return &RecognitionServiceImpl{
		personService: personService,
		detector:      detector,
		camera:        camera,
		annotator:     annotator,
		newRecognizer: newRecognizer,
		events:        events,
		modelPath:     modelPath,
		threshold:     threshold,
	}
}

func (s *RecognitionServiceImpl) Run(ctx context.Context) error {
	rec, err := s.newRecognizer()
	if err != nil {
		return err
	}
	defer rec.Close()

	// The model must load before the camera is touched.
	if err := rec.Load(s.modelPath); err != nil {
		logger.RecognizeError("model_load_failed", "Trained model missing or unreadable", err,
			map[string]interface{}{"model_path": s.modelPath})
		return fmt.Errorf("%w: %v", services.ErrModelNotTrained, err)
	}

	nameMap, err := s.personService.LoadNameMap(ctx)
	if err != nil {
		return err
	}

	cam, err := s.camera.Open()
	if err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer cam.Close()

	logger.Recognize("recognition_started", "Live recognition started", map[string]interface{}{
		"model_path": s.modelPath,
		"threshold":  s.threshold,
		"people":     len(nameMap),
	})

	seq := 0
	for {
		select {
		case <-ctx.Done():
			logger.Recognize("recognition_stopped", "Live recognition stopped", map[string]interface{}{
				"frames": seq,
			})
			if s.events != nil {
				s.events.Publish(services.EventRecognizeStopped, services.FrameEvent{Seq: seq})
			}
			return nil
		default:
		}

		frame, err := cam.Read()
		if err != nil {
			if errors.Is(err, vision.ErrNoFrame) {
				continue
			}
			return fmt.Errorf("camera read failed: %w", err)
		}

		faces, err := s.detector.DetectFaces(frame)
		if err != nil {
			continue
		}

		seq++
		var matches []services.Match
		var marks []vision.Mark
		for _, f := range faces {
			pred, err := rec.Predict(f.Crop)
			if err != nil {
				continue
			}

			if pred.Distance < s.threshold {
				name, ok := nameMap[pred.Label]
				if !ok {
					name = unknownName
				}
				matches = append(matches, services.Match{
					PersonID: pred.Label,
					Name:     name,
					Distance: pred.Distance,
					Known:    true,
					Rect:     f.Rect,
				})
				marks = append(marks, vision.Mark{Rect: f.Rect, Label: name, Positive: true})
			} else {
				matches = append(matches, services.Match{
					PersonID: pred.Label,
					Name:     unknownName,
					Distance: pred.Distance,
					Known:    false,
					Rect:     f.Rect,
				})
				marks = append(marks, vision.Mark{Rect: f.Rect, Label: unknownName, Positive: false})
			}
		}

		s.publishFrame(seq, matches, frame, marks)
	}
}

func (s *RecognitionServiceImpl) publishFrame(seq int, matches []services.Match, frame []byte, marks []vision.Mark) {
	if s.events == nil {
		return
	}

	annotated := frame
	if len(marks) > 0 && s.annotator != nil {
		if a, err := s.annotator.Annotate(frame, marks); err == nil {
			annotated = a
		}
	}

	s.events.Publish(services.EventRecognizeFrame, services.FrameEvent{
		Seq:       seq,
		Matches:   matches,
		FrameJPEG: annotated,
	})
}
