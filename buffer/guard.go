package buffer

import "github.com/lkim94gatech/buzzpage/page"

// PageGuard is a scoped borrow of a resident page, grounded on the
// teacher's ReadPageGuard/WritePageGuard split (buffer/page_guard.go),
// collapsed to one guard kind because every fix in this engine is
// potentially a mutation - node pages are always mutated in place.
type PageGuard struct {
	pool *BufferPool
	id   page.ID
	p    *page.Page
	live bool
}

func newPageGuard(pool *BufferPool, id page.ID, p *page.Page) *PageGuard {
	return &PageGuard{pool: pool, id: id, p: p, live: true}
}

// Data returns the page's raw bytes for reading or in-place mutation.
// The caller must not retain the slice past Unfix.
func (g *PageGuard) Data() []byte {
	return g.p.Bytes()
}

// ID reports which page this guard is borrowing.
func (g *PageGuard) ID() page.ID {
	return g.id
}

// Unfix releases the guard, allowing the pool to be fixed again. Unfix
// is idempotent; calling it twice is a no-op.
func (g *PageGuard) Unfix() {
	if !g.live {
		return
	}
	g.live = false
	g.pool.unfix(g.id)
}
