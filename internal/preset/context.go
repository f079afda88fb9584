package preset

import (
	"time"
)

// Context carries the randomness for a single composition. It is created per
// request and must not be shared between compositions.
type Context struct {
	seed uint64
	rand *Source
}

// NewContext seeds a Context. A zero seed is replaced by one derived from the
// clock; Seed reports the value actually used so the result can be replayed.
func NewContext(seed uint64) *Context {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		if seed == 0 {
			seed = 1
		}
	}
	return &Context{seed: seed, rand: NewSource(seed)}
}

// Seed returns the resolved seed.
func (c *Context) Seed() uint64 {
	return c.seed
}

// Rand returns the stream owned by the context.
func (c *Context) Rand() *Source {
	return c.rand
}
