package coach

import (
	"errors"
	"sync"
)

var ErrInFlight = errors.New("a coach request for this item is already running")

// InFlight allows one outstanding request per key. Different keys never
// block each other.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{keys: make(map[string]struct{})}
}

// Start claims key. The returned func releases it and must be called once
// the request finishes. ok is false if key is already claimed.
func (f *InFlight) Start(key string) (done func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.keys[key]; busy {
		return nil, false
	}
	f.keys[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.keys, key)
			f.mu.Unlock()
		})
	}, true
}

func (f *InFlight) Busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.keys[key]
	return busy
}
