package gemini

import (
	"fmt"
	"sync"
)

// KeyRing is an ordered credential list with a sticky rotation cursor.
//
// The cursor survives across calls: whichever key served the last request
// keeps serving until it fails, and a full failed pass leaves the cursor
// back where it started. Advancing wraps modulo the list length, so a ring
// never runs out of keys to point at; callers bound their own attempts
// with Len.
type KeyRing struct {
	mu   sync.Mutex
	keys []string
	cur  int
}

// NewKeyRing builds a ring from an ordered key list.
// List order is rotation order. Empty lists are a configuration error.
func NewKeyRing(keys []string) (*KeyRing, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	return &KeyRing{keys: append([]string(nil), keys...)}, nil
}

// Len returns the number of keys in the ring.
func (r *KeyRing) Len() int {
	return len(r.keys)
}

// Current returns the key under the cursor and its position.
func (r *KeyRing) Current() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[r.cur], r.cur
}

// Advance moves the cursor to the next key, wrapping at the end, and
// returns the new key and its position.
func (r *KeyRing) Advance() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cur = (r.cur + 1) % len(r.keys)
	return r.keys[r.cur], r.cur
}

// maskKey shortens a credential for log output.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "********"
	}
	return fmt.Sprintf("%s…%s", key[:4], key[len(key)-2:])
}
