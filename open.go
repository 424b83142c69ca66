package buzzpage

import (
	"cmp"

	"github.com/lkim94gatech/buzzpage/btree"
	"github.com/lkim94gatech/buzzpage/buffer"
	"github.com/lkim94gatech/buzzpage/replacer"
	"github.com/lkim94gatech/buzzpage/storage/disk"
)

// Store bundles a BufferPool with the BTreeIndex built on top of it,
// plus the PageStore underneath, so a caller holds one handle and one
// Close call per open file.
type Store[K cmp.Ordered, V any] struct {
	store *disk.PageStore
	pool  *buffer.BufferPool
	Index *btree.Index[K, V]
}

// Open wires a PageStore, a buffer.BufferPool over replacer.LRU, and a
// fresh btree.Index, per cfg. Use this for a new tree (cfg.Truncate ==
// true, the common case in tests) or for the first open of a brand new
// file.
func Open[K cmp.Ordered, V any](cfg Config) (*Store[K, V], error) {
	store, pool, err := openPool(cfg)
	if err != nil {
		return nil, err
	}

	idx, err := btree.New[K, V](pool)
	if err != nil {
		return nil, err
	}

	return &Store[K, V]{store: store, pool: pool, Index: idx}, nil
}

// Reopen wires the same PageStore/BufferPool plumbing as Open, but
// rebuilds the Index handle from a previously recorded root/nextPageID
// pair instead of initializing a fresh empty tree. The caller is
// responsible for keeping that pair out-of-band: root/nextPageID are
// not themselves persisted in the page file.
func Reopen[K cmp.Ordered, V any](cfg Config, root, nextPageID uint64) (*Store[K, V], error) {
	store, pool, err := openPool(cfg)
	if err != nil {
		return nil, err
	}

	idx := btree.Reopen[K, V](pool, root, nextPageID)
	return &Store[K, V]{store: store, pool: pool, Index: idx}, nil
}

func openPool(cfg Config) (*disk.PageStore, *buffer.BufferPool, error) {
	store, err := disk.Open(cfg.Path, cfg.Truncate)
	if err != nil {
		return nil, nil, err
	}

	capacity := cfg.capacity()
	pool := buffer.New(store, replacer.NewLRU(capacity), capacity)
	return store, pool, nil
}

// Close tears the buffer pool down (flushing every resident page) and
// closes the underlying file.
func (s *Store[K, V]) Close() error {
	if err := s.pool.Teardown(); err != nil {
		return err
	}
	return s.store.Close()
}
