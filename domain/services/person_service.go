package services

import (
	"context"
	"errors"

	"github.com/nbailey1776/facial-recognition-app/domain/models"
)

// Custom errors for the registry
var (
	ErrInvalidPersonID    = errors.New("person ID must be a positive integer")
	ErrInvalidDisplayName = errors.New("display name must not be empty")
	ErrDuplicatePersonID  = errors.New("person ID is already taken")
	ErrDuplicateName      = errors.New("display name is already taken")
	ErrPersonNotFound     = errors.New("person not found")
)

// PersonInfo is a registry row enriched with its dataset preview image.
type PersonInfo struct {
	models.Person
	PreviewImage string `json:"preview_image"`
	ImageCount   int    `json:"image_count"`
}

// PersonService owns the person registry and the lifecycle of each
// person's dataset folder.
type PersonService interface {
	// Register validates and inserts a new person. No partial state is
	// left behind on failure.
	Register(ctx context.Context, personID int, displayName string) (*models.Person, error)

	// Remove deletes the registry row and the person's dataset folder.
	// Returns ErrPersonNotFound if the person does not exist.
	Remove(ctx context.Context, personID int) error

	// List returns all registered people with preview images.
	List(ctx context.Context) ([]PersonInfo, error)

	// LoadNameMap returns the full personID -> displayName mapping used to
	// label live recognition output.
	LoadNameMap(ctx context.Context) (map[int]string, error)
}
