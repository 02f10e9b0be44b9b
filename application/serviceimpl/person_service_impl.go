package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nbailey1776/facial-recognition-app/domain/models"
	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/redis"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

const (
	nameMapCacheKey = "face_registry:name_map"
	nameMapCacheTTL = 5 * time.Minute
)

type PersonServiceImpl struct {
	personRepo     repositories.PersonRepository
	store          *dataset.Store
	cache          *redis.RedisClient // optional, nil disables caching
	defaultPreview string
}

func NewPersonService(
	personRepo repositories.PersonRepository,
	store *dataset.Store,
	cache *redis.RedisClient,
	defaultPreview string,
) services.PersonService {
	return &PersonServiceImpl{
		personRepo:     personRepo,
		store:          store,
		cache:          cache,
		defaultPreview: defaultPreview,
	}
}

func (s *PersonServiceImpl) Register(ctx context.Context, personID int, displayName string) (*models.Person, error) {
	if personID <= 0 {
		return nil, services.ErrInvalidPersonID
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, services.ErrInvalidDisplayName
	}

	if _, err := s.personRepo.GetByPersonID(ctx, personID); err == nil {
		return nil, services.ErrDuplicatePersonID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.personRepo.GetByDisplayName(ctx, displayName); err == nil {
		return nil, services.ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	person := &models.Person{
		PersonID:    personID,
		DisplayName: displayName,
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		// A concurrent register can slip past the read checks and hit
		// the unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, lookupErr := s.personRepo.GetByPersonID(ctx, personID); lookupErr == nil {
				return nil, services.ErrDuplicatePersonID
			}
			return nil, services.ErrDuplicateName
		}
		return nil, err
	}

	s.invalidateNameMap(ctx)
	logger.DB("person_registered", "Person registered", map[string]interface{}{
		"person_id": personID,
		"name":      displayName,
	})
	return person, nil
}

func (s *PersonServiceImpl) Remove(ctx context.Context, personID int) error {
	person, err := s.personRepo.GetByPersonID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrPersonNotFound
		}
		return err
	}

	if err := s.personRepo.Delete(ctx, personID); err != nil {
		return err
	}

	// The dataset folder goes with the registry row.
	if err := s.store.RemoveFolder(person.DisplayName, personID); err != nil {
		logger.Error(logger.CategoryDB, "dataset_folder_remove_failed",
			"Failed to remove dataset folder", err, map[string]interface{}{"person_id": personID})
	}

	s.invalidateNameMap(ctx)
	logger.DB("person_removed", "Person removed", map[string]interface{}{
		"person_id": personID,
		"name":      person.DisplayName,
	})
	return nil
}

func (s *PersonServiceImpl) List(ctx context.Context) ([]services.PersonInfo, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]services.PersonInfo, 0, len(people))
	for _, p := range people {
		preview := s.store.PreviewImage(p.DisplayName, p.PersonID)
		if preview == "" {
			preview = s.defaultPreview
		}
		images, _ := s.store.ListImages(p.DisplayName, p.PersonID)
		infos = append(infos, services.PersonInfo{
			Person:       p,
			PreviewImage: preview,
			ImageCount:   len(images),
		})
	}
	return infos, nil
}

func (s *PersonServiceImpl) LoadNameMap(ctx context.Context) (map[int]string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, nameMapCacheKey)
		if err == nil {
			var nameMap map[int]string
			if jsonErr := json.Unmarshal([]byte(cached), &nameMap); jsonErr == nil {
				return nameMap, nil
			}
		} else if !redis.IsNil(err) {
			logger.StartupWarn("name_map_cache_read_failed", "Name map cache unavailable, reading from database",
				map[string]interface{}{"error": err.Error()})
		}
	}

	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	nameMap := make(map[int]string, len(people))
	for _, p := range people {
		nameMap[p.PersonID] = p.DisplayName
	}

	if s.cache != nil {
		if data, err := json.Marshal(nameMap); err == nil {
			if err := s.cache.Set(ctx, nameMapCacheKey, string(data), nameMapCacheTTL); err != nil {
				logger.StartupWarn("name_map_cache_write_failed", "Failed to cache name map",
					map[string]interface{}{"error": err.Error()})
			}
		}
	}

	return nameMap, nil
}

func (s *PersonServiceImpl) invalidateNameMap(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, nameMapCacheKey); err != nil {
		logger.StartupWarn("name_map_cache_invalidate_failed", "Failed to invalidate name map cache",
			map[string]interface{}{"error": err.Error()})
	}
}
