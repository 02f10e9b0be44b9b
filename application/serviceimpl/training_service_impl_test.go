package serviceimpl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
)

func seedDataset(t *testing.T, root string, folder string, count int) {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= count; i++ {
		name := filepath.Join(dir, "User_"+folder+"_"+string(rune('0'+i))+".jpg")
		if err := os.WriteFile(name, []byte{0xff, 0xd8, byte(i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestTrain(t *testing.T) {
	root := t.TempDir()
	seedDataset(t, root, "alice_1", 3)
	seedDataset(t, root, "bob_2", 2)

	modelPath := filepath.Join(t.TempDir(), "trainer.yml")
	rec := &fakeRecognizer{}
	svc := NewTrainingService(dataset.NewStore(root), fixedRecognizerFactory(rec), modelPath)

	result, err := svc.Train(context.Background())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if result.Samples != 5 {
		t.Errorf("Samples = %d, want 5", result.Samples)
	}
	if result.People != 2 {
		t.Errorf("People = %d, want 2", result.People)
	}
	if result.ModelPath != modelPath {
		t.Errorf("ModelPath = %q, want %q", result.ModelPath, modelPath)
	}
	if rec.savedPath != modelPath {
		t.Errorf("recognizer saved to %q, want %q", rec.savedPath, modelPath)
	}

	labels := make(map[int]int)
	for _, s := range rec.trained {
		labels[s.Label]++
	}
	if labels[1] != 3 || labels[2] != 2 {
		t.Errorf("trained labels %v, want map[1:3 2:2]", labels)
	}
}

func TestTrainSkipsMalformedFolders(t *testing.T) {
	root := t.TempDir()
	seedDataset(t, root, "alice_1", 2)
	seedDataset(t, root, "strayfolder", 2)

	rec := &fakeRecognizer{}
	svc := NewTrainingService(dataset.NewStore(root), fixedRecognizerFactory(rec),
		filepath.Join(t.TempDir(), "trainer.yml"))

	result, err := svc.Train(context.Background())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if result.Samples != 2 {
		t.Errorf("Samples = %d, want only the well-formed folder", result.Samples)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	for _, s := range rec.trained {
		if s.Label != 1 {
			t.Errorf("trained label %d, want only label 1", s.Label)
		}
	}
}

func TestTrainEmptyDataset(t *testing.T) {
	rec := &fakeRecognizer{}
	svc := NewTrainingService(dataset.NewStore(t.TempDir()), fixedRecognizerFactory(rec),
		filepath.Join(t.TempDir(), "trainer.yml"))

	_, err := svc.Train(context.Background())
	if !errors.Is(err, services.ErrEmptyDataset) {
		t.Fatalf("Train error = %v, want ErrEmptyDataset", err)
	}
	if rec.savedPath != "" {
		t.Error("recognizer saved a model for an empty dataset")
	}
}

func TestTrainCancelled(t *testing.T) {
	root := t.TempDir()
	seedDataset(t, root, "alice_1", 2)

	svc := NewTrainingService(dataset.NewStore(root), fixedRecognizerFactory(&fakeRecognizer{}),
		filepath.Join(t.TempDir(), "trainer.yml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Train(ctx); err == nil {
		t.Fatal("Train succeeded with a cancelled context")
	}
}
