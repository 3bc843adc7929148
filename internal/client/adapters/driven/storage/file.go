package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrUnreadableSession marks a session file that exists but cannot be
// decoded. Set and Delete replace such a document instead of failing.
var ErrUnreadableSession = errors.New("session file is unreadable")

// File persists entries as one JSON document. Every Get re-reads the file
// so that another process's login or logout is picked up. With a non-empty
// passphrase the document is sealed (see seal.go).
type File struct {
	path string
	mu   sync.Mutex
	box  *sealer
}

func NewFile(path, passphrase string) (*File, error) {
	if path == "" {
		return nil, errors.New("session file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}

	f := &File{path: path}
	if passphrase != "" {
		f.box = newSealer(passphrase)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if unusable(err) {
		data = make(map[string]string)
	} else if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if unusable(err) {
		return f.remove()
	}
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(data, k)
	}
	if len(data) == 0 {
		return f.remove()
	}
	return f.save(data)
}

func (f *File) Close() error {
	return nil
}

func (f *File) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// unusable reports a document that can be read from disk but not opened.
func unusable(err error) bool {
	return errors.Is(err, ErrWrongPassphrase) || errors.Is(err, ErrUnreadableSession)
}

func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	if f.box != nil {
		if raw, err = f.box.open(raw); err != nil {
			return nil, err
		}
	}

	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrUnreadableSession, f.path, err)
	}
	return data, nil
}

// save writes a temp file and renames it over the old one.
func (f *File) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}
	if f.box != nil {
		if raw, err = f.box.seal(raw); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
