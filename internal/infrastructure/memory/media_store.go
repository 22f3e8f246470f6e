package memory

import (
	"context"
	"io"
	"strings"
	"sync"
)

// MediaStore keeps uploaded objects in memory and serves URLs under baseURL.
type MediaStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
}

type Object struct {
	ContentType string
	Data        []byte
}

func NewMediaStore(baseURL string) *MediaStore {
	return &MediaStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (m *MediaStore) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.objects[key] = Object{ContentType: contentType, Data: data}
	m.mu.Unlock()

	return m.baseURL + "/" + key, nil
}

// Get returns a stored object.
func (m *MediaStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}
