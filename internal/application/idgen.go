package application

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues decimal, millisecond-based bin IDs. IDs are strictly
// increasing within a process: two bins created in the same millisecond get
// consecutive values instead of colliding.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator using clock, or time.Now when nil.
func NewIDGenerator(clock func() time.Time) *IDGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &IDGenerator{now: clock}
}

// Next returns the next ID.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id

	return strconv.FormatInt(id, 10)
}
