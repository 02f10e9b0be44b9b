// Package dataset implements the filesystem store of per-person face
// images. Each registered person owns one folder named
// <displayName>_<personID> under the store root; face crops are JPEG files
// named User_<displayName>_<personID>_<n> with a counter scoped to one
// collection run. The folder-name suffix is the only link between an image
// and its numeric identity at training time.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrFolderNotFound is returned when a person's dataset folder is missing.
var ErrFolderNotFound = errors.New("dataset folder not found")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImageFile reports whether the file name carries an accepted image
// extension (case-insensitive).
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ParsePersonID extracts the numeric identity from a dataset folder name
// of the form <displayName>_<personID>.
func ParsePersonID(folderName string) (int, error) {
	idx := strings.LastIndex(folderName, "_")
	if idx < 0 || idx == len(folderName)-1 {
		return 0, fmt.Errorf("folder name %q has no person ID suffix", folderName)
	}
	id, err := strconv.Atoi(folderName[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("folder name %q has a non-numeric person ID suffix: %w", folderName, err)
	}
	return id, nil
}

// Store is the dataset root directory.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string {
	return s.root
}

// FolderName returns the dataset folder name for a person.
func (s *Store) FolderName(displayName string, personID int) string {
	return fmt.Sprintf("%s_%d", displayName, personID)
}

// FolderPath returns the absolute-or-relative path of a person's folder.
func (s *Store) FolderPath(displayName string, personID int) string {
	return filepath.Join(s.root, s.FolderName(displayName, personID))
}

// EnsureFolder creates the person's folder if missing (idempotent).
func (s *Store) EnsureFolder(displayName string, personID int) (string, error) {
	path := s.FolderPath(displayName, personID)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create dataset folder %s: %w", path, err)
	}
	return path, nil
}

// FaceFileName returns the file name for the seq-th face crop of a run.
func (s *Store) FaceFileName(displayName string, personID, seq int) string {
	return fmt.Sprintf("User_%s_%d_%d.jpg", displayName, personID, seq)
}

// SaveFace writes one face crop under the run counter name and returns the
// stored file path.
func (s *Store) SaveFace(displayName string, personID, seq int, data []byte) (string, error) {
	path := filepath.Join(s.FolderPath(displayName, personID), s.FaceFileName(displayName, personID, seq))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write face image %s: %w", path, err)
	}
	return path, nil
}

// ListImages returns the sorted image file names in a person's folder.
// A missing folder yields an empty list, not an error.
func (s *Store) ListImages(displayName string, personID int) ([]string, error) {
	entries, err := os.ReadDir(s.FolderPath(displayName, personID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dataset folder: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		images = append(images, entry.Name())
	}
	sort.Strings(images)
	return images, nil
}

// ReadImage reads one stored face image back.
func (s *Store) ReadImage(displayName string, personID int, fileName string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.FolderPath(displayName, personID), fileName))
}

// RemoveFolder deletes a person's folder recursively. Removing a missing
// folder is a no-op.
func (s *Store) RemoveFolder(displayName string, personID int) error {
	return os.RemoveAll(s.FolderPath(displayName, personID))
}

// PreviewImage returns the path of the first image in a person's folder,
// or "" when the folder is missing or empty.
func (s *Store) PreviewImage(displayName string, personID int) string {
	images, err := s.ListImages(displayName, personID)
	if err != nil || len(images) == 0 {
		return ""
	}
	return filepath.ToSlash(filepath.Join(s.FolderPath(displayName, personID), images[0]))
}

// Walk visits every image file under the store root, handing the caller
// the file path and the person ID parsed from its parent folder. Files
// under folders without a parseable ID suffix are skipped and counted, not
// fatal to the walk.
func (s *Store) Walk(fn func(path string, personID int) error) (skipped int, err error) {
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) && path == s.root {
				return filepath.SkipAll
			}
			return walkErr
		}
		if d.IsDir() || !IsImageFile(d.Name()) {
			return nil
		}

		personID, parseErr := ParsePersonID(filepath.Base(filepath.Dir(path)))
		if parseErr != nil {
			skipped++
			return nil
		}
		return fn(path, personID)
	})
	return skipped, err
}

// Stats counts dataset folders and image files for health reporting.
func (s *Store) Stats() (folders, images int, err error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folders++
		files, err := os.ReadDir(filepath.Join(s.root, entry.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if !f.IsDir() && IsImageFile(f.Name()) {
				images++
			}
		}
	}
	return folders, images, nil
}
