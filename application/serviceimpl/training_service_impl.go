package serviceimpl

import (
	"context"
	"os"
	"time"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/vision"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

type TrainingServiceImpl struct {
	store         *dataset.Store
	newRecognizer vision.RecognizerFactory
	modelPath     string
}

func NewTrainingService(
	store *dataset.Store,
	newRecognizer vision.RecognizerFactory,
	modelPath string,
) services.TrainingService {
	return &TrainingServiceImpl{
		store:         store,
		newRecognizer: newRecognizer,
		modelPath:     modelPath,
	}
}

func (s *TrainingServiceImpl) Train(ctx context.Context) (*services.TrainingResult, error) {
	start := time.Now()

	var samples []vision.Sample
	people := make(map[int]struct{})
	unreadable := 0

	skippedFolders, err := s.store.Walk(func(path string, personID int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			unreadable++
			logger.TrainWarn("sample_unreadable", "Skipping unreadable dataset image", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}
		samples = append(samples, vision.Sample{Image: data, Label: personID})
		people[personID] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if skippedFolders > 0 {
		logger.TrainWarn("malformed_folders_skipped", "Skipped images under folders without a numeric ID suffix",
			map[string]interface{}{"skipped": skippedFolders})
	}
	if len(samples) == 0 {
		logger.TrainError("empty_dataset", "Nothing to train on", services.ErrEmptyDataset, nil)
		return nil, services.ErrEmptyDataset
	}

	rec, err := s.newRecognizer()
	if err != nil {
		return nil, err
	}
	defer rec.Close()

	if err := rec.Train(samples); err != nil {
		return nil, err
	}
	// Full rebuild: the previous artifact is replaced wholesale.
	if err := rec.Save(s.modelPath); err != nil {
		return nil, err
	}

	result := &services.TrainingResult{
		Samples:   len(samples),
		People:    len(people),
		Skipped:   skippedFolders + unreadable,
		ModelPath: s.modelPath,
		Duration:  time.Since(start).String(),
	}

	logger.Train("training_complete", "Model trained and saved", map[string]interface{}{
		"samples":    result.Samples,
		"people":     result.People,
		"skipped":    result.Skipped,
		"model_path": result.ModelPath,
		"duration":   result.Duration,
	})

	return result, nil
}
