package booking

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Clock supplies audit timestamps. It must be monotonic per service
// instance; time.Now satisfies that in practice for this use.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// IDGenerator hands out booking identifiers, unique for the lifetime of the
// system.
type IDGenerator interface {
	NextID() string
}

// SequenceGenerator produces identifiers of the form BK-<year>-<NNNN>. The
// year is fixed at construction; the sequence is owned by this instance, so
// deployments with multiple writers must share a generator or partition the
// sequence space.
type SequenceGenerator struct {
	year int
	seq  atomic.Int64
}

func NewSequenceGenerator(clock Clock, start int64) *SequenceGenerator {
	g := &SequenceGenerator{year: clock.Now().Year()}
	g.seq.Store(start)
	return g
}

func (g *SequenceGenerator) NextID() string {
	return fmt.Sprintf("BK-%d-%04d", g.year, g.seq.Add(1))
}
