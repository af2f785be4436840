package archive

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
)

// Object is one stored blob.
type Object struct {
	ContentType string
	Body        []byte
}

// MemoryArchive keeps objects in process memory. Its links use the
// memory:// scheme and are only meaningful to Get.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string]Object)}
}

func (a *MemoryArchive) Put(ctx context.Context, key, contentType string, body []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = Object{ContentType: contentType, Body: append([]byte(nil), body...)}
	return nil
}

func (a *MemoryArchive) PresignGet(ctx context.Context, key string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if _, ok := a.objects[key]; !ok {
		return "", common.ErrorNotFound
	}
	return "memory://" + key, nil
}

func (a *MemoryArchive) Get(key string) (Object, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	o, ok := a.objects[key]
	return o, ok
}
