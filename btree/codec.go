package btree

import (
	"cmp"

	"github.com/lkim94gatech/buzzpage/buffer"
	"github.com/lkim94gatech/buzzpage/page"
)

// peekLevel fixes pageID just long enough to read its header's level
// field, the only way to tell a leaf page from an inner page before
// choosing which full decode to run.
func peekLevel(pool *buffer.BufferPool, pageID uint64) (uint16, error) {
	guard, err := pool.FixPage(page.ID(pageID))
	if err != nil {
		return 0, err
	}
	defer guard.Unfix()

	return decodeHeader(guard.Data()).Level, nil
}

// readLeaf fixes pageID, decodes it as a leaf, and releases the fix
// before returning. The node is a decoded copy; callers that mutate it
// must write it back with writeLeaf.
func readLeaf[K cmp.Ordered, V any](pool *buffer.BufferPool, pageID uint64) (*leafNode[K, V], error) {
	guard, err := pool.FixPage(page.ID(pageID))
	if err != nil {
		return nil, err
	}
	defer guard.Unfix()

	return decodeLeaf[K, V](guard.Data())
}

// writeLeaf fixes n's page and encodes n's current contents into it.
func writeLeaf[K cmp.Ordered, V any](pool *buffer.BufferPool, n *leafNode[K, V]) error {
	guard, err := pool.FixPage(page.ID(n.PageID))
	if err != nil {
		return err
	}
	defer guard.Unfix()

	return encodeLeaf(guard.Data(), n)
}

// readInner fixes pageID, decodes it as an inner node, and releases the
// fix before returning.
func readInner[K cmp.Ordered](pool *buffer.BufferPool, pageID uint64) (*innerNode[K], error) {
	guard, err := pool.FixPage(page.ID(pageID))
	if err != nil {
		return nil, err
	}
	defer guard.Unfix()

	return decodeInner[K](guard.Data())
}

// writeInner fixes n's page and encodes n's current contents into it.
func writeInner[K cmp.Ordered](pool *buffer.BufferPool, n *innerNode[K]) error {
	guard, err := pool.FixPage(page.ID(n.PageID))
	if err != nil {
		return err
	}
	defer guard.Unfix()

	return encodeInner(guard.Data(), n)
}
