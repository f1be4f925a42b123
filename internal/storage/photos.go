package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// PhotoStore keeps task photos as files under root/dir. Paths handed out are
// relative to root, e.g. "photos/task_12_pump.jpg".
type PhotoStore struct {
	root string
	dir  string
}

// NewPhotoStore creates root/dir if it does not exist yet.
func NewPhotoStore(root, dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}

	return &PhotoStore{root: root, dir: dir}, nil
}

// PhotoName is the deterministic file name for a task's upload.
func PhotoName(taskID int64, filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("invalid photo filename: %q", filename)
	}
	ext := strings.ToLower(filepath.Ext(base))
	if !allowedPhotoExts[ext] {
		return "", fmt.Errorf("unsupported photo type %q: use jpg or png", ext)
	}
	return fmt.Sprintf("task_%d_%s", taskID, base), nil
}

// Save writes data for taskID and returns the relative path to store on the
// task. A second upload with the same filename replaces the first.
func (s *PhotoStore) Save(taskID int64, filename string, data io.Reader) (string, error) {
	name, err := PhotoName(taskID, filename)
	if err != nil {
		return "", err
	}

	rel := path.Join(filepath.ToSlash(s.dir), name)
	fullPath := filepath.Join(s.root, filepath.FromSlash(rel))

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, data); err != nil {
		file.Close()
		os.Remove(fullPath) // Cleanup on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return rel, nil
}

// Open opens a previously saved photo by its relative path.
func (s *PhotoStore) Open(relPath string) (io.ReadCloser, error) {
	clean := path.Clean("/" + relPath)[1:]
	file, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("photo not found: %s", relPath)
		}
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	return file, nil
}

// Delete removes a saved photo; a missing file is not an error.
func (s *PhotoStore) Delete(relPath string) error {
	clean := path.Clean("/" + relPath)[1:]
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean))); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
