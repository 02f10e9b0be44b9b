package services

import (
	"context"
)

// TrainingResult summarizes one training run.
type TrainingResult struct {
	Samples   int    `json:"samples"`
	People    int    `json:"people"`
	Skipped   int    `json:"skipped"` // files under malformed folders or unreadable
	ModelPath string `json:"model_path"`
	Duration  string `json:"duration"`
}

// TrainingService rebuilds the recognizer model from the dataset store.
// Every run replaces the model artifact wholesale; there is no incremental
// update.
type TrainingService interface {
	Train(ctx context.Context) (*TrainingResult, error)
}
