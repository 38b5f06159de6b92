package ledger

import "time"

// idGenerator issues creation-time ids (Unix milliseconds). Ids are strictly
// increasing even when the clock stalls or goes backwards.
type idGenerator struct {
	now  func() time.Time
	last int64
}

func newIDGenerator(now func() time.Time, seed int64) *idGenerator {
	return &idGenerator{now: now, last: seed}
}

func (g *idGenerator) next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
