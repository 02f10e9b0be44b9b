package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/nbailey1776/facial-recognition-app/domain/models"
	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
)

type PersonRepositoryImpl struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) repositories.PersonRepository {
	return &PersonRepositoryImpl{db: db}
}

func (r *PersonRepositoryImpl) Create(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *PersonRepositoryImpl) GetByPersonID(ctx context.Context, personID int) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Where("person_id = ?", personID).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonRepositoryImpl) GetByDisplayName(ctx context.Context, displayName string) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Where("display_name = ?", displayName).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonRepositoryImpl) List(ctx context.Context) ([]models.Person, error) {
	var people []models.Person
	err := r.db.WithContext(ctx).Order("person_id ASC").Find(&people).Error
	return people, err
}

func (r *PersonRepositoryImpl) Delete(ctx context.Context, personID int) error {
	return r.db.WithContext(ctx).Where("person_id = ?", personID).Delete(&models.Person{}).Error
}

func (r *PersonRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Person{}).Count(&count).Error
	return count, err
}
