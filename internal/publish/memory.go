package publish

import (
	"context"
	"sort"
	"sync"
)

type memoryObject struct {
	payload     []byte
	contentType string
}

// MemorySink keeps files in process memory. Used by tests and dry runs.
type MemorySink struct {
	mu   sync.RWMutex
	objs map[string]memoryObject
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{objs: make(map[string]memoryObject)}
}

func (s *MemorySink) Driver() Driver { return DriverMemory }

func (s *MemorySink) Put(_ context.Context, key string, payload []byte, contentType string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	s.mu.Lock()
	s.objs[clean] = memoryObject{payload: data, contentType: contentType}
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the payload stored under key.
func (s *MemorySink) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	out := make([]byte, len(obj.payload))
	copy(out, obj.payload)
	return out, true
}

// ContentType returns the content type recorded for key.
func (s *MemorySink) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objs[key].contentType
}

// Keys lists stored keys in sorted order.
func (s *MemorySink) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.objs))
	for k := range s.objs {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (s *MemorySink) Close(context.Context) error { return nil }
