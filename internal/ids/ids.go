package ids

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator func() string

var (
	mu        sync.RWMutex
	generator Generator = DefaultGenerator
)

// DefaultGenerator returns random (v4) UUIDs, so short prefixes stay distinct.
func DefaultGenerator() string {
	return uuid.NewString()
}

// New returns a fresh identifier from the current generator.
func New() string {
	mu.RLock()
	g := generator
	mu.RUnlock()
	return g()
}

// SetGenerator swaps the generator and returns a func restoring the previous one.
func SetGenerator(g Generator) (restore func()) {
	mu.Lock()
	prev := generator
	generator = g
	mu.Unlock()
	return func() {
		mu.Lock()
		generator = prev
		mu.Unlock()
	}
}

// Sequence returns a deterministic generator yielding prefix-1, prefix-2, ...
func Sequence(prefix string) Generator {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}

// Short trims an identifier for display; the CLI accepts any unique prefix.
func Short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
