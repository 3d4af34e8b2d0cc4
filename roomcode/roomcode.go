// roomcode/roomcode.go
package roomcode

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ErrExhausted is returned when no unused code is found within maxAttempts.
var ErrExhausted = errors.New("room code space exhausted")

const maxAttempts = 64

// Allocator produces short human-enterable room codes: 4 random digits,
// probed for uniqueness against the live room set.
type Allocator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewAllocator(seed int64) *Allocator {
	return &Allocator{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a code for which inUse reports false.
func (a *Allocator) Next(inUse func(code string) bool) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < maxAttempts; i++ {
		code := fmt.Sprintf("%04d", 1000+a.rng.Intn(9000))
		if !inUse(code) {
			return code, nil
		}
	}
	return "", ErrExhausted
}
