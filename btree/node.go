// Package btree implements BTreeIndex: an ordered, unique-key key/value
// map stored as a tree of pages fetched through a buffer.BufferPool.
// Every node occupies exactly one page. A node page carries a small
// fixed-width header at byte 0 (level, count,
// page_id, splits, parent, dirty), explicitly encoded with
// encoding/binary rather than an unsafe struct cast; the variable-width
// remainder (keys and values/children) is msgpack-encoded as slices
// via util.EncodeBody/DecodeBody (backed by
// github.com/vmihailenco/msgpack), the slices allocated up front with
// make([]K, cap) rather than fixed arrays.
package btree

import (
	"cmp"
	"encoding/binary"

	"github.com/lkim94gatech/buzzpage/util"
)

// headerSize is the fixed byte width of the on-disk node header:
// level(2) + count(2) + page_id(8) + splits(2) + parent(8) + dirty(1),
// padded out to a round number.
const headerSize = 32

// header carries the bookkeeping every node kind shares: level (0 for
// leaves, >0 for inner nodes) and count (live entries - per-kind
// meaning), plus the reserved bookkeeping fields carried in the header.
type header struct {
	Level  uint16
	Count  uint16
	PageID uint64
	Splits uint16
	Parent uint64
	Dirty  bool
}

func (h *header) isLeaf() bool {
	return h.Level == 0
}

func encodeHeader(buf []byte, h header) {
	binary.LittleEndian.PutUint16(buf[0:2], h.Level)
	binary.LittleEndian.PutUint16(buf[2:4], h.Count)
	binary.LittleEndian.PutUint64(buf[4:12], h.PageID)
	binary.LittleEndian.PutUint16(buf[12:14], h.Splits)
	binary.LittleEndian.PutUint64(buf[14:22], h.Parent)
	if h.Dirty {
		buf[22] = 1
	} else {
		buf[22] = 0
	}
}

func decodeHeader(buf []byte) header {
	return header{
		Level:  binary.LittleEndian.Uint16(buf[0:2]),
		Count:  binary.LittleEndian.Uint16(buf[2:4]),
		PageID: binary.LittleEndian.Uint64(buf[4:12]),
		Splits: binary.LittleEndian.Uint16(buf[12:14]),
		Parent: binary.LittleEndian.Uint64(buf[14:22]),
		Dirty:  buf[22] != 0,
	}
}

// leafNode stores up to LeafCap key/value pairs in key-ascending order.
// Count is the number of live pairs. Keys/Vals are always allocated at
// LeafCap length so index access never needs a bounds check beyond
// Count itself.
type leafNode[K cmp.Ordered, V any] struct {
	header
	Next uint64
	Prev uint64
	Keys []K
	Vals []V
}

// leafBody is the msgpack-encoded tail of a leaf page (everything past
// the fixed header).
type leafBody[K cmp.Ordered, V any] struct {
	Next uint64
	Prev uint64
	Keys []K
	Vals []V
}

func newLeaf[K cmp.Ordered, V any](pageID, parent uint64) *leafNode[K, V] {
	return &leafNode[K, V]{
		header: header{Level: 0, PageID: pageID, Parent: parent},
		Keys:   make([]K, LeafCap),
		Vals:   make([]V, LeafCap),
	}
}

func encodeLeaf[K cmp.Ordered, V any](buf []byte, n *leafNode[K, V]) error {
	encodeHeader(buf, n.header)
	body, err := util.EncodeBody(leafBody[K, V]{Next: n.Next, Prev: n.Prev, Keys: n.Keys, Vals: n.Vals})
	if err != nil {
		return err
	}
	if headerSize+len(body) > len(buf) {
		util.Fatalf("encoded leaf node (%d bytes) exceeds page size", headerSize+len(body))
	}
	copy(buf[headerSize:], body)
	return nil
}

func decodeLeaf[K cmp.Ordered, V any](buf []byte) (*leafNode[K, V], error) {
	h := decodeHeader(buf)
	body, err := util.DecodeBody[leafBody[K, V]](buf[headerSize:])
	if err != nil {
		return nil, err
	}
	return &leafNode[K, V]{header: h, Next: body.Next, Prev: body.Prev, Keys: body.Keys, Vals: body.Vals}, nil
}

func (n *leafNode[K, V]) isFull() bool {
	return n.Count >= LeafCap
}

// findPosition returns the smallest index p with Keys[p] >= key. If key
// is larger than every live key, the result equals Count.
func (n *leafNode[K, V]) findPosition(key K) int {
	pos := 0
	for pos < int(n.Count) && n.Keys[pos] < key {
		pos++
	}
	return pos
}

// lookup returns the value stored for key, if present.
func (n *leafNode[K, V]) lookup(key K) (V, bool) {
	pos := n.findPosition(key)
	if pos < int(n.Count) && n.Keys[pos] == key {
		return n.Vals[pos], true
	}
	var zero V
	return zero, false
}

// insertOrUpdate overwrites key's value if present, else inserts in
// order. Callers check for spare capacity before calling this on the
// insert path: the leaf split policy splits a full leaf before the
// triggering key is placed, so this is never asked to exceed LeafCap.
func (n *leafNode[K, V]) insertOrUpdate(key K, value V) {
	pos := n.findPosition(key)
	if pos < int(n.Count) && n.Keys[pos] == key {
		n.Vals[pos] = value
		n.Dirty = true
		return
	}

	for i := int(n.Count); i > pos; i-- {
		n.Keys[i] = n.Keys[i-1]
		n.Vals[i] = n.Vals[i-1]
	}
	n.Keys[pos] = key
	n.Vals[pos] = value
	n.Count++
	n.Dirty = true
}

// erase removes key if present, shifting subsequent entries left. No
// rebalancing: an emptied leaf simply stays in the tree - a deliberate
// simplification.
func (n *leafNode[K, V]) erase(key K) bool {
	pos := n.findPosition(key)
	if pos >= int(n.Count) || n.Keys[pos] != key {
		return false
	}
	for i := pos; i < int(n.Count)-1; i++ {
		n.Keys[i] = n.Keys[i+1]
		n.Vals[i] = n.Vals[i+1]
	}
	n.Count--
	n.Dirty = true
	return true
}

// split moves the upper half of n's entries into right: mid = count/2,
// right receives [mid, count). The separator is right's first key.
func (n *leafNode[K, V]) split(right *leafNode[K, V]) K {
	mid := int(n.Count) / 2
	j := 0
	for i := mid; i < int(n.Count); i++ {
		right.Keys[j] = n.Keys[i]
		right.Vals[j] = n.Vals[i]
		j++
	}
	right.Count = uint16(j)
	n.Count = uint16(mid)

	right.Next = n.Next
	n.Next = right.PageID
	right.Prev = n.PageID

	n.Dirty = true
	right.Dirty = true
	n.Splits++

	return right.Keys[0]
}

// innerNode stores up to InnerCap children and InnerCap-1 separator
// keys in steady state. Count is the number of live children; for i in
// [0, Count-2] every key in subtree(Children[i]) is < Keys[i], every key
// in subtree(Children[i+1]) is >= Keys[i].
//
// Keys/Children are allocated one slot larger than the steady-state
// capacity: propagation inserts the new separator/child into the
// parent unconditionally and only checks for overflow afterward, so
// the node must be able to hold the transient "overfull"
// state (Count == InnerCap+1) for the one statement between that insert
// and the recursive split that resolves it.
type innerNode[K cmp.Ordered] struct {
	header
	Keys     []K
	Children []uint64
}

type innerBody[K cmp.Ordered] struct {
	Keys     []K
	Children []uint64
}

func newInner[K cmp.Ordered](pageID, parent uint64, level uint16) *innerNode[K] {
	return &innerNode[K]{
		header:   header{Level: level, PageID: pageID, Parent: parent},
		Keys:     make([]K, InnerCap),
		Children: make([]uint64, InnerCap+1),
	}
}

func encodeInner[K cmp.Ordered](buf []byte, n *innerNode[K]) error {
	encodeHeader(buf, n.header)
	body, err := util.EncodeBody(innerBody[K]{Keys: n.Keys, Children: n.Children})
	if err != nil {
		return err
	}
	if headerSize+len(body) > len(buf) {
		util.Fatalf("encoded inner node (%d bytes) exceeds page size", headerSize+len(body))
	}
	copy(buf[headerSize:], body)
	return nil
}

func decodeInner[K cmp.Ordered](buf []byte) (*innerNode[K], error) {
	h := decodeHeader(buf)
	body, err := util.DecodeBody[innerBody[K]](buf[headerSize:])
	if err != nil {
		return nil, err
	}
	return &innerNode[K]{header: h, Keys: body.Keys, Children: body.Children}, nil
}

func (n *innerNode[K]) isFull() bool {
	return int(n.Count) > InnerCap
}

// childIndex returns the smallest i such that key < Keys[i]; if no such
// i, the rightmost child.
func (n *innerNode[K]) childIndex(key K) int {
	for i := 0; i < int(n.Count)-1; i++ {
		if key < n.Keys[i] {
			return i
		}
	}
	return int(n.Count) - 1
}

// slotOf returns the index of childPageID within Children, or -1.
func (n *innerNode[K]) slotOf(childPageID uint64) int {
	for i := 0; i < int(n.Count); i++ {
		if n.Children[i] == childPageID {
			return i
		}
	}
	return -1
}

// insertAfter inserts separator key and a new child pointer immediately
// after the child at slot, shifting the remainder right. This may push
// Count to InnerCap+1 (the transient overfull state); the caller is
// responsible for splitting afterward.
func (n *innerNode[K]) insertAfter(slot int, key K, childPageID uint64) {
	for i := int(n.Count); i > slot+1; i-- {
		n.Children[i] = n.Children[i-1]
	}
	for i := int(n.Count) - 1; i > slot; i-- {
		n.Keys[i] = n.Keys[i-1]
	}
	n.Keys[slot] = key
	n.Children[slot+1] = childPageID
	n.Count++
	n.Dirty = true
}

// split implements the inner split policy: mid = count/2, the
// separator is Keys[mid]. right receives Keys[mid+1..count-2] and
// Children[mid+1..count-1]; n retains Keys[0..mid-1] and Children[0..mid]
// (all ranges inclusive).
// count always equals the live child count on both sides, before and
// after the split.
func (n *innerNode[K]) split(right *innerNode[K]) K {
	total := int(n.Count)
	mid := total / 2
	separator := n.Keys[mid]

	j := 0
	for i := mid + 1; i < total-1; i++ {
		right.Keys[j] = n.Keys[i]
		j++
	}
	j = 0
	for i := mid + 1; i < total; i++ {
		right.Children[j] = n.Children[i]
		j++
	}

	right.Count = uint16(total - (mid + 1))
	right.Level = n.Level
	n.Count = uint16(mid + 1)

	n.Dirty = true
	right.Dirty = true
	n.Splits++

	return separator
}
