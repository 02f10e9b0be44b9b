package serviceimpl

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/nbailey1776/facial-recognition-app/domain/models"
	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
)

func newPersonService(t *testing.T) (services.PersonService, *dataset.Store) {
	t.Helper()
	store := dataset.NewStore(t.TempDir())
	return NewPersonService(newTestRepo(t), store, nil, "default.jpg"), store
}

func TestRegister(t *testing.T) {
	svc, _ := newPersonService(t)
	ctx := context.Background()

	person, err := svc.Register(ctx, 7, "ryan")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if person.PersonID != 7 || person.DisplayName != "ryan" {
		t.Errorf("Register returned %+v, want person 7 ryan", person)
	}

	tests := []struct {
		name        string
		personID    int
		displayName string
		wantErr     error
	}{
		{"duplicate id", 7, "other", services.ErrDuplicatePersonID},
		{"duplicate name", 8, "ryan", services.ErrDuplicateName},
		{"zero id", 0, "zoe", services.ErrInvalidPersonID},
		{"negative id", -3, "zoe", services.ErrInvalidPersonID},
		{"blank name", 9, "   ", services.ErrInvalidDisplayName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.personID, tt.displayName); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register(%d, %q) error = %v, want %v", tt.personID, tt.displayName, err, tt.wantErr)
			}
		})
	}
}

func TestRegisterTrimsDisplayName(t *testing.T) {
	svc, _ := newPersonService(t)

	person, err := svc.Register(context.Background(), 5, "  mary  ")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if person.DisplayName != "mary" {
		t.Errorf("DisplayName = %q, want trimmed %q", person.DisplayName, "mary")
	}
}

// staleReadRepo serves a configurable number of not-found answers before
// delegating, standing in for the window between the duplicate checks and
// the insert of a concurrent register.
type staleReadRepo struct {
	repositories.PersonRepository
	staleIDReads   int
	staleNameReads int
}

func (r *staleReadRepo) GetByPersonID(ctx context.Context, personID int) (*models.Person, error) {
	if r.staleIDReads > 0 {
		r.staleIDReads--
		return nil, gorm.ErrRecordNotFound
	}
	return r.PersonRepository.GetByPersonID(ctx, personID)
}

func (r *staleReadRepo) GetByDisplayName(ctx context.Context, displayName string) (*models.Person, error) {
	if r.staleNameReads > 0 {
		r.staleNameReads--
		return nil, gorm.ErrRecordNotFound
	}
	return r.PersonRepository.GetByDisplayName(ctx, displayName)
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()

	t.Run("person id", func(t *testing.T) {
		repo := newTestRepo(t)
		stale := &staleReadRepo{PersonRepository: repo, staleIDReads: 1}
		svc := NewPersonService(stale, dataset.NewStore(t.TempDir()), nil, "default.jpg")

		if err := repo.Create(ctx, &models.Person{PersonID: 7, DisplayName: "ryan"}); err != nil {
			t.Fatalf("Create: %v", err)
		}

		if _, err := svc.Register(ctx, 7, "other"); !errors.Is(err, services.ErrDuplicatePersonID) {
			t.Errorf("Register error = %v, want ErrDuplicatePersonID", err)
		}
	})

	t.Run("display name", func(t *testing.T) {
		repo := newTestRepo(t)
		stale := &staleReadRepo{PersonRepository: repo, staleNameReads: 1}
		svc := NewPersonService(stale, dataset.NewStore(t.TempDir()), nil, "default.jpg")

		if err := repo.Create(ctx, &models.Person{PersonID: 7, DisplayName: "ryan"}); err != nil {
			t.Fatalf("Create: %v", err)
		}

		if _, err := svc.Register(ctx, 8, "ryan"); !errors.Is(err, services.ErrDuplicateName) {
			t.Errorf("Register error = %v, want ErrDuplicateName", err)
		}
	})
}

func TestRemove(t *testing.T) {
	svc, store := newPersonService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, 7, "ryan"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := store.SaveFace("ryan", 7, 1, []byte{0xff}); err != nil {
		t.Fatalf("SaveFace: %v", err)
	}

	if err := svc.Remove(ctx, 7); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	// Registry row and dataset folder are both gone
	people, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(people) != 0 {
		t.Errorf("List after remove returned %d people, want 0", len(people))
	}
	if images, _ := store.ListImages("ryan", 7); len(images) != 0 {
		t.Errorf("dataset folder still holds %d images after remove", len(images))
	}

	if err := svc.Remove(ctx, 7); !errors.Is(err, services.ErrPersonNotFound) {
		t.Errorf("Remove of missing person error = %v, want ErrPersonNotFound", err)
	}
}

func TestListPreviews(t *testing.T) {
	svc, store := newPersonService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, 1, "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, 2, "bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveFace("alice", 1, 1, []byte{0xff}); err != nil {
		t.Fatal(err)
	}

	people, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("List returned %d people, want 2", len(people))
	}

	// Sorted by person ID: alice has an image, bob falls back
	if people[0].ImageCount != 1 || people[0].PreviewImage == "default.jpg" {
		t.Errorf("alice = %+v, want one image with a real preview", people[0])
	}
	if people[1].ImageCount != 0 || people[1].PreviewImage != "default.jpg" {
		t.Errorf("bob = %+v, want zero images with the default preview", people[1])
	}
}

func TestLoadNameMap(t *testing.T) {
	svc, _ := newPersonService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, 1, "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, 2, "bob"); err != nil {
		t.Fatal(err)
	}

	names, err := svc.LoadNameMap(ctx)
	if err != nil {
		t.Fatalf("LoadNameMap: %v", err)
	}
	if len(names) != 2 || names[1] != "alice" || names[2] != "bob" {
		t.Errorf("LoadNameMap = %v, want map[1:alice 2:bob]", names)
	}
}
