package serviceimpl

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/vision"
)

// oneFacePerImage detects a single centered face whose crop is the image
// itself, except for inputs starting with "blank" (no faces) or "broken"
// (decode failure).
func oneFacePerImage(imageData []byte) ([]vision.DetectedFace, error) {
	if bytes.HasPrefix(imageData, []byte("broken")) {
		return nil, vision.ErrDecode
	}
	if bytes.HasPrefix(imageData, []byte("blank")) {
		return nil, nil
	}
	return []vision.DetectedFace{{
		Rect: image.Rect(10, 10, 50, 50),
		Crop: imageData,
	}}, nil
}

func newCollectionFixture(t *testing.T, quota int) (services.CollectionService, *dataset.Store, *fakeCameraSource, *recordingPublisher, repositories.PersonRepository) {
	t.Helper()

	repo := newTestRepo(t)
	store := dataset.NewStore(t.TempDir())
	camera := &fakeCameraSource{camera: &fakeCamera{frame: []byte("frame")}}
	events := &recordingPublisher{}

	svc := NewCollectionService(repo, store, &fakeDetector{detect: oneFacePerImage},
		camera, passthroughAnnotator{}, events, quota)
	return svc, store, camera, events, repo
}

func registerPerson(t *testing.T, repo repositories.PersonRepository, personID int, name string) {
	t.Helper()
	svc := NewPersonService(repo, dataset.NewStore(t.TempDir()), nil, "default.jpg")
	if _, err := svc.Register(context.Background(), personID, name); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestCollectFromUploadsPadsToQuota(t *testing.T) {
	const quota = 10
	svc, store, _, _, repo := newCollectionFixture(t, quota)
	registerPerson(t, repo, 7, "ryan")

	uploads := []services.Upload{
		{Filename: "a.jpg", Data: []byte("face-a")},
		{Filename: "b.jpg", Data: []byte("face-b")},
		{Filename: "c.jpg", Data: []byte("face-c")},
	}

	result, err := svc.CollectFromUploads(context.Background(), 7, uploads)
	if err != nil {
		t.Fatalf("CollectFromUploads: %v", err)
	}

	if result.Saved != 3 {
		t.Errorf("Saved = %d, want 3", result.Saved)
	}
	if result.Padded != quota-3 {
		t.Errorf("Padded = %d, want %d", result.Padded, quota-3)
	}
	if result.Total != quota {
		t.Errorf("Total = %d, want %d", result.Total, quota)
	}

	images, err := store.ListImages("ryan", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != quota {
		t.Fatalf("stored %d images, want %d", len(images), quota)
	}

	// Padding duplicates existing crops cyclically
	first, err := store.ReadImage("ryan", 7, store.FaceFileName("ryan", 7, 4))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, []byte("face-a")) {
		t.Errorf("fourth image = %q, want duplicate of the first crop", first)
	}
}

func TestCollectFromUploadsCapsAtQuota(t *testing.T) {
	const quota = 2
	svc, store, _, _, repo := newCollectionFixture(t, quota)
	registerPerson(t, repo, 7, "ryan")

	uploads := []services.Upload{
		{Filename: "a.jpg", Data: []byte("face-a")},
		{Filename: "b.jpg", Data: []byte("face-b")},
		{Filename: "c.jpg", Data: []byte("face-c")},
		{Filename: "d.jpg", Data: []byte("face-d")},
		{Filename: "e.jpg", Data: []byte("face-e")},
	}

	result, err := svc.CollectFromUploads(context.Background(), 7, uploads)
	if err != nil {
		t.Fatalf("CollectFromUploads: %v", err)
	}

	if result.Saved != quota {
		t.Errorf("Saved = %d, want capped at %d", result.Saved, quota)
	}
	if result.Padded != 0 {
		t.Errorf("Padded = %d, want 0 for a full batch", result.Padded)
	}
	if result.Total != quota {
		t.Errorf("Total = %d, want %d", result.Total, quota)
	}

	images, err := store.ListImages("ryan", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != quota {
		t.Errorf("stored %d images, want %d", len(images), quota)
	}
}

func TestCollectFromUploadsSkipsBadImages(t *testing.T) {
	svc, _, _, _, repo := newCollectionFixture(t, 4)
	registerPerson(t, repo, 7, "ryan")

	uploads := []services.Upload{
		{Filename: "ok.jpg", Data: []byte("face-a")},
		{Filename: "empty.jpg", Data: []byte("blank-1")},
		{Filename: "corrupt.jpg", Data: []byte("broken-1")},
	}

	result, err := svc.CollectFromUploads(context.Background(), 7, uploads)
	if err != nil {
		t.Fatalf("CollectFromUploads: %v", err)
	}

	if result.Saved != 1 {
		t.Errorf("Saved = %d, want 1", result.Saved)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if result.Total != 4 {
		t.Errorf("Total = %d, want quota reached by padding", result.Total)
	}
}

func TestCollectFromUploadsNoFacesAnywhere(t *testing.T) {
	svc, store, _, _, repo := newCollectionFixture(t, 4)
	registerPerson(t, repo, 7, "ryan")

	uploads := []services.Upload{
		{Filename: "a.jpg", Data: []byte("blank-1")},
		{Filename: "b.jpg", Data: []byte("blank-2")},
	}

	// An entirely faceless batch is logged, not escalated
	result, err := svc.CollectFromUploads(context.Background(), 7, uploads)
	if err != nil {
		t.Fatalf("CollectFromUploads: %v", err)
	}
	if result.Saved != 0 || result.Total != 0 {
		t.Errorf("result = %+v, want empty dataset", result)
	}

	if images, _ := store.ListImages("ryan", 7); len(images) != 0 {
		t.Errorf("stored %d images, want 0", len(images))
	}
}

func TestCollectFromUploadsUnknownPerson(t *testing.T) {
	svc, _, _, _, _ := newCollectionFixture(t, 4)

	_, err := svc.CollectFromUploads(context.Background(), 42, []services.Upload{
		{Filename: "a.jpg", Data: []byte("face-a")},
	})
	if !errors.Is(err, services.ErrPersonNotFound) {
		t.Errorf("CollectFromUploads error = %v, want ErrPersonNotFound", err)
	}
}

func TestCollectFromCamera(t *testing.T) {
	const quota = 5
	svc, store, camera, events, repo := newCollectionFixture(t, quota)
	registerPerson(t, repo, 7, "ryan")

	result, err := svc.CollectFromCamera(context.Background(), 7)
	if err != nil {
		t.Fatalf("CollectFromCamera: %v", err)
	}

	if result.Saved != quota {
		t.Errorf("Saved = %d, want %d", result.Saved, quota)
	}
	if images, _ := store.ListImages("ryan", 7); len(images) != quota {
		t.Errorf("stored %d images, want %d", len(images), quota)
	}
	if camera.opens != 1 {
		t.Errorf("camera opened %d times, want 1", camera.opens)
	}

	types := events.published()
	if len(types) == 0 || types[len(types)-1] != services.EventCaptureDone {
		t.Errorf("published events %v, want final %s", types, services.EventCaptureDone)
	}
}

func TestCollectFromCameraCancelled(t *testing.T) {
	svc, _, camera, events, repo := newCollectionFixture(t, 100)
	registerPerson(t, repo, 7, "ryan")

	ctx, cancel := context.WithCancel(context.Background())
	camera.camera.onRead = func(reads int) {
		if reads == 3 {
			cancel()
		}
	}

	result, err := svc.CollectFromCamera(ctx, 7)
	if err != nil {
		t.Fatalf("CollectFromCamera: %v", err)
	}
	if result.Saved >= 100 {
		t.Errorf("Saved = %d, want the session cut short", result.Saved)
	}

	types := events.published()
	if len(types) == 0 || types[len(types)-1] != services.EventCaptureDone {
		t.Errorf("published events %v, want final %s", types, services.EventCaptureDone)
	}
}

func TestCollectFromCameraOpenFailure(t *testing.T) {
	svc, _, camera, _, repo := newCollectionFixture(t, 5)
	registerPerson(t, repo, 7, "ryan")

	camera.openErr = errors.New("device busy")

	if _, err := svc.CollectFromCamera(context.Background(), 7); err == nil {
		t.Fatal("CollectFromCamera succeeded with an unopenable camera")
	}
}
