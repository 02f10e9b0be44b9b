package serviceimpl

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nbailey1776/facial-recognition-app/domain/models"
	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/vision"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

type CollectionServiceImpl struct {
	personRepo repositories.PersonRepository
	store      *dataset.Store
	detector   vision.Detector
	camera     vision.CameraSource
	annotator  vision.Annotator
	events     services.EventPublisher // optional
	quota      int
}

func NewCollectionService(
	personRepo repositories.PersonRepository,
	store *dataset.Store,
	detector vision.Detector,
	camera vision.CameraSource,
	annotator vision.Annotator,
	events services.EventPublisher,
	quota int,
) services.CollectionService {
	return &CollectionServiceImpl{
		personRepo: personRepo,
		store:      store,
		detector:   detector,
		camera:     camera,
		annotator:  annotator,
		events:     events,
		quota:      quota,
	}
}

func (s *CollectionServiceImpl) CollectFromUploads(ctx context.Context, personID int, uploads []services.Upload) (*services.CollectionResult, error) {
	person, err := s.lookup(ctx, personID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.EnsureFolder(person.DisplayName, personID); err != nil {
		return nil, err
	}

	count := 0
	skipped := 0
	for _, upload := range uploads {
		if ctx.Err() != nil {
			break
		}
		if count >= s.quota {
			break
		}

		faces, err := s.detector.DetectFaces(upload.Data)
		if err != nil {
			logger.CaptureWarn("upload_unreadable", "Skipping unreadable uploaded image", map[string]interface{}{
				"person_id": personID,
				"file":      upload.Filename,
				"error":     err.Error(),
			})
			skipped++
			continue
		}
		if len(faces) == 0 {
			logger.CaptureWarn("no_face_detected", "No faces detected in uploaded image, skipping", map[string]interface{}{
				"person_id": personID,
				"file":      upload.Filename,
			})
			skipped++
			continue
		}

		for _, f := range faces {
			if count >= s.quota {
				break
			}
			count++
			if _, err := s.store.SaveFace(person.DisplayName, personID, count, f.Crop); err != nil {
				return nil, err
			}
		}
	}

	saved := count
	padded, err := s.padToQuota(person.DisplayName, personID, &count)
	if err != nil {
		return nil, err
	}

	total, err := s.store.ListImages(person.DisplayName, personID)
	if err != nil {
		return nil, err
	}

	logger.Capture("upload_collection_complete", "Upload collection finished", map[string]interface{}{
		"person_id": personID,
		"name":      person.DisplayName,
		"saved":     saved,
		"padded":    padded,
		"skipped":   skipped,
		"total":     len(total),
	})

	return &services.CollectionResult{
		PersonID:    personID,
		DisplayName: person.DisplayName,
		Saved:       saved,
		Padded:      padded,
		Skipped:     skipped,
		Total:       len(total),
	}, nil
}

// padToQuota duplicates already-saved images cyclically until the quota is
// reached, so every trained person contributes the same number of samples.
// An empty folder ends the run with a logged error instead of escalating.
func (s *CollectionServiceImpl) padToQuota(displayName string, personID int, count *int) (int, error) {
	images, err := s.store.ListImages(displayName, personID)
	if err != nil {
		return 0, err
	}
	if len(images) == 0 {
		logger.CaptureError("empty_dataset", "No images to duplicate, dataset left empty",
			services.ErrEmptyDataset, map[string]interface{}{"person_id": personID})
		return 0, nil
	}

	padded := 0
	for *count < s.quota {
		wrote := false
		for _, img := range images {
			if *count >= s.quota {
				break
			}
			data, err := s.store.ReadImage(displayName, personID, img)
			if err != nil {
				continue
			}
			*count++
			if _, err := s.store.SaveFace(displayName, personID, *count, data); err != nil {
				return padded, err
			}
			padded++
			wrote = true
		}
		if !wrote {
			// every source image became unreadable mid-run
			break
		}
	}
	return padded, nil
}

func (s *CollectionServiceImpl) CollectFromCamera(ctx context.Context, personID int) (*services.CollectionResult, error) {
	person, err := s.lookup(ctx, personID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.EnsureFolder(person.DisplayName, personID); err != nil {
		return nil, err
	}

	cam, err := s.camera.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open camera: %w", err)
	}
	defer cam.Close()

	logger.Capture("webcam_collection_started", "Webcam collection started", map[string]interface{}{
		"person_id": personID,
		"name":      person.DisplayName,
		"quota":     s.quota,
	})

	count := 0
loop:
	for count < s.quota {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		frame, err := cam.Read()
		if err != nil {
			if errors.Is(err, vision.ErrNoFrame) {
				continue
			}
			logger.CaptureError("frame_read_failed", "Camera read failed, stopping collection", err,
				map[string]interface{}{"person_id": personID})
			break
		}

		faces, err := s.detector.DetectFaces(frame)
		if err != nil {
			continue
		}

		var marks []vision.Mark
		for _, f := range faces {
			if count >= s.quota {
				break
			}
			count++
			if _, err := s.store.SaveFace(person.DisplayName, personID, count, f.Crop); err != nil {
				return nil, err
			}
			marks = append(marks, vision.Mark{
				Rect:  f.Rect,
				Label: fmt.Sprintf("Captured: %d/%d", count, s.quota),
			})
		}

		s.publishFrame(personID, count, frame, marks)
	}

	logger.Capture("webcam_collection_complete", "Webcam collection finished", map[string]interface{}{
		"person_id": personID,
		"name":      person.DisplayName,
		"saved":     count,
	})
	if s.events != nil {
		s.events.Publish(services.EventCaptureDone, services.CaptureEvent{
			PersonID: personID,
			Captured: count,
			Quota:    s.quota,
		})
	}

	return &services.CollectionResult{
		PersonID:    personID,
		DisplayName: person.DisplayName,
		Saved:       count,
		Total:       count,
	}, nil
}

func (s *CollectionServiceImpl) publishFrame(personID, count int, frame []byte, marks []vision.Mark) {
	if s.events == nil {
		return
	}

	annotated := frame
	if len(marks) > 0 && s.annotator != nil {
		if a, err := s.annotator.Annotate(frame, marks); err == nil {
			annotated = a
		}
	}

	s.events.Publish(services.EventCaptureFrame, services.CaptureEvent{
		PersonID:  personID,
		Captured:  count,
		Quota:     s.quota,
		FrameJPEG: annotated,
	})
}

func (s *CollectionServiceImpl) lookup(ctx context.Context, personID int) (*models.Person, error) {
	person, err := s.personRepo.GetByPersonID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrPersonNotFound
		}
		return nil, err
	}
	return person, nil
}
