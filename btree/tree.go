package btree

import (
	"cmp"

	"github.com/lkim94gatech/buzzpage/buffer"
)

// Index is an ordered, unique-key map of K to V, stored as a tree of
// fixed-size pages reached through a buffer.BufferPool. It has no
// rebalancing on delete and no concurrent-access support, per the
// single-threaded cooperative model this engine targets.
type Index[K cmp.Ordered, V any] struct {
	pool *buffer.BufferPool

	root       uint64
	nextPageID uint64
}

// New creates a fresh, empty index: a single empty leaf as root.
func New[K cmp.Ordered, V any](pool *buffer.BufferPool) (*Index[K, V], error) {
	idx := &Index[K, V]{pool: pool, nextPageID: firstPageID}

	rootID := idx.allocPageID()
	root := newLeaf[K, V](rootID, 0)
	if err := writeLeaf(pool, root); err != nil {
		return nil, err
	}
	idx.root = rootID

	return idx, nil
}

// Reopen rebuilds an Index handle over a pool whose backing file
// already holds a tree, given the root and next-page-id values from a
// prior session. These two values are not themselves persisted in the
// page file and must be supplied by the caller, who keeps them
// out-of-band (buzzpage.Reopen takes them as arguments in the same way).
func Reopen[K cmp.Ordered, V any](pool *buffer.BufferPool, root, nextPageID uint64) *Index[K, V] {
	return &Index[K, V]{pool: pool, root: root, nextPageID: nextPageID}
}

// Root reports the page id of the current root node.
func (idx *Index[K, V]) Root() uint64 {
	return idx.root
}

// NextPageID reports the page id that will be handed out by the next
// allocation.
func (idx *Index[K, V]) NextPageID() uint64 {
	return idx.nextPageID
}

func (idx *Index[K, V]) allocPageID() uint64 {
	id := idx.nextPageID
	idx.nextPageID++
	return id
}

// Lookup returns the value stored for key, if present.
func (idx *Index[K, V]) Lookup(key K) (V, bool, error) {
	leafID, _, err := idx.descend(key)
	if err != nil {
		var zero V
		return zero, false, err
	}

	leaf, err := readLeaf[K, V](idx.pool, leafID)
	if err != nil {
		var zero V
		return zero, false, err
	}

	value, found := leaf.lookup(key)
	return value, found, nil
}

// pathStep records one inner node visited while descending toward key.
// propagateSplit walks this slice from the bottom up to insert a
// promoted separator into each ancestor in turn.
type pathStep struct {
	nodeID uint64
}

// descend walks from the root to the leaf that would contain key,
// following innerNode.childIndex at each level, recording the path of
// inner nodes visited.
func (idx *Index[K, V]) descend(key K) (leafID uint64, path []pathStep, err error) {
	current := idx.root

	for {
		level, err := peekLevel(idx.pool, current)
		if err != nil {
			return 0, nil, err
		}
		if level == 0 {
			return current, path, nil
		}

		node, err := readInner[K](idx.pool, current)
		if err != nil {
			return 0, nil, err
		}
		path = append(path, pathStep{nodeID: current})
		current = node.Children[node.childIndex(key)]
	}
}

// Insert inserts key/value, overwriting any existing value for key.
// Splits propagate upward: a full leaf splits before the key is
// placed; a full inner node splits after the new separator/child is
// added, recursively up to a fresh root if the existing root itself
// overflows.
func (idx *Index[K, V]) Insert(key K, value V) error {
	leafID, path, err := idx.descend(key)
	if err != nil {
		return err
	}

	leaf, err := readLeaf[K, V](idx.pool, leafID)
	if err != nil {
		return err
	}

	if _, exists := leaf.lookup(key); !exists && leaf.isFull() {
		separator, rightID, err := idx.splitLeaf(leaf)
		if err != nil {
			return err
		}

		if err := idx.propagateSplit(path, leafID, separator, rightID); err != nil {
			return err
		}

		if key >= separator {
			leaf, err = readLeaf[K, V](idx.pool, rightID)
		} else {
			leaf, err = readLeaf[K, V](idx.pool, leafID)
		}
		if err != nil {
			return err
		}
	}

	leaf.insertOrUpdate(key, value)
	return writeLeaf(idx.pool, leaf)
}

// splitLeaf allocates a new right sibling, splits leaf into it, writes
// both back, and returns the separator key promoted to the parent along
// with the right sibling's page id.
func (idx *Index[K, V]) splitLeaf(leaf *leafNode[K, V]) (K, uint64, error) {
	rightID := idx.allocPageID()
	right := newLeaf[K, V](rightID, leaf.Parent)

	separator := leaf.split(right)

	if err := writeLeaf(idx.pool, right); err != nil {
		var zero K
		return zero, 0, err
	}
	if err := writeLeaf(idx.pool, leaf); err != nil {
		var zero K
		return zero, 0, err
	}

	return separator, rightID, nil
}

// propagateSplit inserts (separator, rightID) into the ancestor chain
// recorded in path, starting from the bottom. splitChildID identifies,
// at each level, which existing child slot the new sibling belongs
// after - the child whose page id is unchanged by the split one level
// down. If an ancestor overflows it splits in turn; if the walk runs
// off the top of path, a fresh root is created over the old root and
// the final right sibling.
func (idx *Index[K, V]) propagateSplit(path []pathStep, splitChildID uint64, separator K, rightID uint64) error {
	for i := len(path) - 1; i >= 0; i-- {
		parentID := path[i].nodeID

		parent, err := readInner[K](idx.pool, parentID)
		if err != nil {
			return err
		}

		slot := parent.slotOf(splitChildID)
		parent.insertAfter(slot, separator, rightID)

		if err := idx.reparent(rightID, parentID); err != nil {
			return err
		}

		if !parent.isFull() {
			return writeInner(idx.pool, parent)
		}

		newRightID := idx.allocPageID()
		newRight := newInner[K](newRightID, parent.Parent, parent.Level)
		separator = parent.split(newRight)

		if err := writeInner(idx.pool, newRight); err != nil {
			return err
		}
		if err := idx.reparentAll(newRight); err != nil {
			return err
		}
		if err := writeInner(idx.pool, parent); err != nil {
			return err
		}

		splitChildID = parentID
		rightID = newRightID
	}

	return idx.newRoot(separator, rightID)
}

// reparentAll rewrites the Parent field of every child currently listed
// in node, pointing them at node's own page id. Used after an inner
// split moves a run of children into a freshly allocated sibling.
func (idx *Index[K, V]) reparentAll(node *innerNode[K]) error {
	for i := 0; i < int(node.Count); i++ {
		if err := idx.reparent(node.Children[i], node.PageID); err != nil {
			return err
		}
	}
	return nil
}

// reparent rewrites childID's Parent field to parentID, regardless of
// whether childID names a leaf or an inner node.
func (idx *Index[K, V]) reparent(childID, parentID uint64) error {
	level, err := peekLevel(idx.pool, childID)
	if err != nil {
		return err
	}

	if level == 0 {
		child, err := readLeaf[K, V](idx.pool, childID)
		if err != nil {
			return err
		}
		if child.Parent == parentID {
			return nil
		}
		child.Parent = parentID
		child.Dirty = true
		return writeLeaf(idx.pool, child)
	}

	child, err := readInner[K](idx.pool, childID)
	if err != nil {
		return err
	}
	if child.Parent == parentID {
		return nil
	}
	child.Parent = parentID
	child.Dirty = true
	return writeInner(idx.pool, child)
}

// newRoot creates a fresh inner root with two children: the old root
// (now split) and the new right sibling produced by that split.
func (idx *Index[K, V]) newRoot(separator K, rightID uint64) error {
	newRootID := idx.allocPageID()

	level, err := peekLevel(idx.pool, idx.root)
	if err != nil {
		return err
	}

	root := newInner[K](newRootID, 0, level+1)
	root.Keys[0] = separator
	root.Children[0] = idx.root
	root.Children[1] = rightID
	root.Count = 2

	if err := idx.reparent(idx.root, newRootID); err != nil {
		return err
	}
	if err := idx.reparent(rightID, newRootID); err != nil {
		return err
	}
	if err := writeInner(idx.pool, root); err != nil {
		return err
	}

	idx.root = newRootID
	return nil
}

// Erase removes key if present. No rebalancing: an emptied leaf simply
// stays in the tree - a deliberate simplification.
func (idx *Index[K, V]) Erase(key K) (bool, error) {
	leafID, _, err := idx.descend(key)
	if err != nil {
		return false, err
	}

	leaf, err := readLeaf[K, V](idx.pool, leafID)
	if err != nil {
		return false, err
	}

	if !leaf.erase(key) {
		return false, nil
	}

	return true, writeLeaf(idx.pool, leaf)
}
