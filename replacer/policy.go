// Package replacer implements ReplacementPolicy: the narrow decision
// engine the buffer pool consults on every access and on every miss that
// requires eviction. It tracks page ids only - never a page buffer.
package replacer

import "github.com/lkim94gatech/buzzpage/page"

// Policy is the capability the buffer pool depends on. Concrete
// implementations (LRU, FIFO) live in this package; callers should
// depend on this interface, not on a concrete shape.
type Policy interface {
	// Touch records an access to id. It returns whether id was already
	// tracked. If tracking a new id would exceed capacity, Touch evicts
	// one id first (equivalent to calling Evict) before inserting.
	Touch(id page.ID) (wasPresent bool)

	// Evict chooses a victim, removes it from tracking, and returns it.
	// ok is false when there is nothing to evict.
	Evict() (victim page.ID, ok bool)
}
