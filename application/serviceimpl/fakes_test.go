package serviceimpl

import (
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nbailey1776/facial-recognition-app/domain/models"
	"github.com/nbailey1776/facial-recognition-app/domain/repositories"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/postgres"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/vision"
)

func newTestRepo(t *testing.T) repositories.PersonRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Person{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return postgres.NewPersonRepository(db)
}

// fakeDetector runs a caller-supplied detection function.
type fakeDetector struct {
	detect func(imageData []byte) ([]vision.DetectedFace, error)
}

func (d *fakeDetector) DetectFaces(imageData []byte) ([]vision.DetectedFace, error) {
	return d.detect(imageData)
}

func (d *fakeDetector) Close() error { return nil }

// fakeCamera yields a fixed frame and reports each read to onRead.
type fakeCamera struct {
	frame   []byte
	readErr error
	reads   int
	onRead  func(reads int)
}

func (c *fakeCamera) Read() ([]byte, error) {
	c.reads++
	if c.onRead != nil {
		c.onRead(c.reads)
	}
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.frame, nil
}

func (c *fakeCamera) Close() error { return nil }

type fakeCameraSource struct {
	camera  *fakeCamera
	openErr error
	opens   int
}

func (s *fakeCameraSource) Open() (vision.Camera, error) {
	s.opens++
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.camera, nil
}

// passthroughAnnotator returns frames unchanged.
type passthroughAnnotator struct{}

func (passthroughAnnotator) Annotate(frame []byte, marks []vision.Mark) ([]byte, error) {
	return frame, nil
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	types  []string
	events []interface{}
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	p.events = append(p.events, payload)
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

// fakeRecognizer records training input and answers predictions from a
// caller-supplied function.
type fakeRecognizer struct {
	trained   []vision.Sample
	savedPath string
	loadErr   error
	trainErr  error
	predict   func(faceImage []byte) (vision.Prediction, error)
}

func (r *fakeRecognizer) Train(samples []vision.Sample) error {
	if r.trainErr != nil {
		return r.trainErr
	}
	r.trained = samples
	return nil
}

func (r *fakeRecognizer) Save(path string) error {
	r.savedPath = path
	return nil
}

func (r *fakeRecognizer) Load(path string) error {
	return r.loadErr
}

func (r *fakeRecognizer) Predict(faceImage []byte) (vision.Prediction, error) {
	if r.predict == nil {
		return vision.Prediction{}, nil
	}
	return r.predict(faceImage)
}

func (r *fakeRecognizer) Close() error { return nil }

func fixedRecognizerFactory(rec *fakeRecognizer) vision.RecognizerFactory {
	return func() (vision.Recognizer, error) {
		return rec, nil
	}
}
