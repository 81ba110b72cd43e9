package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/blackwell-systems/wattwatch/internal/household"
)

// JSONFile stores the household data as a single JSON document.
type JSONFile struct {
	path string
	mu   sync.Mutex
}

var _ Repository = (*JSONFile)(nil)

// NewJSONFile returns a repository backed by the document at path. The file
// is created on the first Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the document location.
func (f *JSONFile) Path() string {
	return f.path
}

// Load reads the document. A missing file yields empty defaults.
func (f *JSONFile) Load() (household.AppData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return household.AppData{Devices: []household.Device{}}, nil
	}
	if err != nil {
		return household.AppData{}, err
	}
	defer func() { _ = file.Close() }()

	data, err := ReadDocument(file)
	if err != nil {
		return household.AppData{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return data, nil
}

// Save writes the document through a temporary file in the same directory
// so readers never observe a partial write.
func (f *JSONFile) Save(data household.AppData) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".wattwatch-*.json")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := WriteDocument(tmp, data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

// Close is a no-op; the file is only open during Load and Save.
func (f *JSONFile) Close() error {
	return nil
}
