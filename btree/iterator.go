package btree

import "cmp"

// Iterator walks every key/value pair in ascending key order by
// following leaf sibling pointers, never re-descending from the root.
// There is no public range-scan API; callers wanting a bounded range
// seek to the first leaf with Index.descend and stop early.
type Iterator[K cmp.Ordered, V any] struct {
	idx *Index[K, V]

	leaf *leafNode[K, V]
	pos  int
	err  error
}

// All returns an iterator positioned at the smallest key in idx.
func All[K cmp.Ordered, V any](idx *Index[K, V]) *Iterator[K, V] {
	it := &Iterator[K, V]{idx: idx}

	current := idx.root
	for {
		level, err := peekLevel(idx.pool, current)
		if err != nil {
			it.err = err
			return it
		}
		if level == 0 {
			break
		}
		node, err := readInner[K](idx.pool, current)
		if err != nil {
			it.err = err
			return it
		}
		current = node.Children[0]
	}

	leaf, err := readLeaf[K, V](idx.pool, current)
	if err != nil {
		it.err = err
		return it
	}
	it.leaf = leaf

	return it
}

// Next advances the iterator and reports whether a pair is available.
// Once Next returns false, Key/Value must not be called again.
func (it *Iterator[K, V]) Next() bool {
	if it.err != nil || it.leaf == nil {
		return false
	}

	for it.pos >= int(it.leaf.Count) {
		if it.leaf.Next == 0 {
			it.leaf = nil
			return false
		}
		next, err := readLeaf[K, V](it.idx.pool, it.leaf.Next)
		if err != nil {
			it.err = err
			it.leaf = nil
			return false
		}
		it.leaf = next
		it.pos = 0
	}

	return true
}

// Key returns the key at the iterator's current position.
func (it *Iterator[K, V]) Key() K {
	return it.leaf.Keys[it.pos]
}

// Value returns the value at the iterator's current position and
// advances past it, ready for the next Next call.
func (it *Iterator[K, V]) Value() V {
	v := it.leaf.Vals[it.pos]
	it.pos++
	return v
}

// Err reports the first error encountered during iteration, if any.
func (it *Iterator[K, V]) Err() error {
	return it.err
}
