package repositories

import (
	"context"

	"github.com/nbailey1776/facial-recognition-app/domain/models"
)

type PersonRepository interface {
	Create(ctx context.Context, person *models.Person) error
	GetByPersonID(ctx context.Context, personID int) (*models.Person, error)
	GetByDisplayName(ctx context.Context, displayName string) (*models.Person, error)
	List(ctx context.Context) ([]models.Person, error)
	Delete(ctx context.Context, personID int) error
	Count(ctx context.Context) (int64, error)
}
