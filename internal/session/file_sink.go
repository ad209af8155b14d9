package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSink stores key/value pairs in a single JSON file with owner-only
// permissions. It is the durable primary sink.
type FileSink struct {
	path string
}

// NewFileSink creates a sink backed by the given file path. The parent
// directory is created on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (f *FileSink) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (f *FileSink) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

// Set stores a value under key.
func (f *FileSink) Set(key, value string) error {
	data, err := f.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking new logins.
		data = map[string]string{}
	}
	data[key] = value
	return f.write(data)
}

// Get returns the value for key, or empty if absent.
func (f *FileSink) Get(key string) (string, error) {
	data, err := f.read()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// Delete removes key. Deleting a missing key is not an error.
func (f *FileSink) Delete(key string) error {
	data, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.write(data)
}
