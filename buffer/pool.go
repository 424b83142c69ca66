// Package buffer implements BufferPool, the memory-residency cache in
// front of PageStore. Its single public primitive, FixPage, returns a
// mutable handle to a resident page; BufferPool delegates to PageStore
// on miss and to a replacer.Policy on eviction.
package buffer

import (
	"github.com/lkim94gatech/buzzpage/page"
	"github.com/lkim94gatech/buzzpage/replacer"
	"github.com/lkim94gatech/buzzpage/storage/disk"
	"github.com/lkim94gatech/buzzpage/util"
)

// BufferPool is a bounded in-memory cache of pages. At most capacity
// pages are resident simultaneously.
type BufferPool struct {
	store    *disk.PageStore
	policy   replacer.Policy
	resident map[page.ID]*page.Page
	capacity int

	// fixed models the non-reentrancy hazard: a caller must not FixPage
	// a second page while still holding a guard for an earlier one,
	// because that call may evict the first.
	fixed   bool
	fixedID page.ID
}

// New wires a BufferPool over store, evicting through policy when full.
func New(store *disk.PageStore, policy replacer.Policy, capacity int) *BufferPool {
	return &BufferPool{
		store:    store,
		policy:   policy,
		resident: make(map[page.ID]*page.Page, capacity),
		capacity: capacity,
	}
}

// FixPage returns a scoped, mutable handle to page id. The handle must
// be released with Guard.Unfix before FixPage is called again - see the
// fixed field for the aliasing hazard this guards against.
func (b *BufferPool) FixPage(id page.ID) (*PageGuard, error) {
	if b.fixed {
		util.Fatalf("FixPage(%d) called while page %d is still fixed", id, b.fixedID)
	}

	if p, ok := b.resident[id]; ok {
		b.policy.Touch(id)
		b.fixed, b.fixedID = true, id
		return newPageGuard(b, id, p), nil
	}

	if len(b.resident) >= b.capacity {
		if victim, ok := b.policy.Evict(); ok {
			if err := b.store.Flush(victim, b.resident[victim]); err != nil {
				return nil, err
			}
			delete(b.resident, victim)
		}
	}

	if err := b.store.ExtendTo(id); err != nil {
		return nil, err
	}

	p, err := b.store.Load(id)
	if err != nil {
		return nil, err
	}

	b.resident[id] = p
	b.policy.Touch(id)
	b.fixed, b.fixedID = true, id

	return newPageGuard(b, id, p), nil
}

// unfix is called by PageGuard.Unfix to release the non-reentrancy lock.
func (b *BufferPool) unfix(id page.ID) {
	if !b.fixed || b.fixedID != id {
		util.Fatalf("Unfix called for page %d which is not the currently fixed page", id)
	}
	b.fixed = false
}

// Teardown flushes every resident page to PageStore, in unspecified
// order, and clears the pool.
func (b *BufferPool) Teardown() error {
	for id, p := range b.resident {
		if err := b.store.Flush(id, p); err != nil {
			return err
		}
		delete(b.resident, id)
	}
	return nil
}
