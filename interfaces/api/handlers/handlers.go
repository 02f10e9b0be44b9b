package handlers

import (
	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/worker"
	"github.com/nbailey1776/facial-recognition-app/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	PersonService      services.PersonService
	CollectionService  services.CollectionService
	TrainingService    services.TrainingService
	RecognitionService services.RecognitionService
}

// Workers contains the camera session workers needed for handlers
type Workers struct {
	Capture     *worker.CaptureWorker
	Recognition *worker.RecognitionWorker
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Person      *PersonHandler
	Collection  *CollectionHandler
	Training    *TrainingHandler
	Recognition *RecognitionHandler
	Health      *HealthHandler
	Log         *LogHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(svcs *Services, workers *Workers, health *HealthHandler, cfg *config.Config) *Handlers {
	return &Handlers{
		Person:      NewPersonHandler(svcs.PersonService),
		Collection:  NewCollectionHandler(svcs.CollectionService, workers.Capture, cfg.Dataset.Quota),
		Training:    NewTrainingHandler(svcs.TrainingService),
		Recognition: NewRecognitionHandler(workers.Recognition),
		Health:      health,
		Log:         NewLogHandler(cfg),
	}
}
