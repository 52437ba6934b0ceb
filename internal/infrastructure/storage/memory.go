package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory. Used by tests and local
// development without an object store.
type MemoryStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

// Object is a stored blob
type Object struct {
	Data        []byte
	ContentType string
}

// NewMemoryStorage creates an empty store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		BaseURL: "http://localhost/storage",
		objects: make(map[string]Object),
	}
}

// Upload stores a copy of data
func (s *MemoryStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Data: stored, ContentType: contentType}
	return nil
}

// DownloadURL returns a fake URL valid for an hour
func (s *MemoryStorage) DownloadURL(_ context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	return s.BaseURL + "/" + key, time.Now().Add(time.Hour), nil
}

// Exists reports whether key was uploaded
func (s *MemoryStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Get returns a stored object
func (s *MemoryStorage) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
