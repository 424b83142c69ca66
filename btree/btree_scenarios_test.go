package btree

import (
	"math/rand"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkim94gatech/buzzpage/buffer"
	"github.com/lkim94gatech/buzzpage/page"
	"github.com/lkim94gatech/buzzpage/replacer"
	"github.com/lkim94gatech/buzzpage/storage/disk"
)

func TestScenarioEmptyToOne(t *testing.T) {
	pool := newTestPool(t, path.Join(t.TempDir(), "buzzpage.dat"), true)
	idx, err := New[int, int](pool)
	require.NoError(t, err)

	require.NoError(t, idx.Insert(42, 21))

	leaf, err := readLeaf[int, int](pool, idx.Root())
	require.NoError(t, err)
	assert.True(t, leaf.isLeaf())
	assert.Equal(t, uint16(1), leaf.Count)

	v, found, err := idx.Lookup(42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 21, v)

	_, found, err = idx.Lookup(7)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestScenarioFillALeaf(t *testing.T) {
	pool := newTestPool(t, path.Join(t.TempDir(), "buzzpage.dat"), true)
	idx, err := New[int, int](pool)
	require.NoError(t, err)

	for i := 0; i < LeafCap; i++ {
		require.NoError(t, idx.Insert(i, 2*i))
	}

	leaf, err := readLeaf[int, int](pool, idx.Root())
	require.NoError(t, err)
	assert.True(t, leaf.isLeaf())
	assert.Equal(t, uint16(LeafCap), leaf.Count)

	for i := 0; i < LeafCap; i++ {
		v, found, err := idx.Lookup(i)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 2*i, v)
	}

	_, found, err := idx.Lookup(LeafCap)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestScenarioFirstSplit(t *testing.T) {
	pool := newTestPool(t, path.Join(t.TempDir(), "buzzpage.dat"), true)
	idx, err := New[int, int](pool)
	require.NoError(t, err)

	for i := 0; i < LeafCap; i++ {
		require.NoError(t, idx.Insert(i, 2*i))
	}
	require.NoError(t, idx.Insert(424242, 42))

	root, err := readInner[int](pool, idx.Root())
	require.NoError(t, err)
	assert.False(t, root.isLeaf())
	assert.Equal(t, uint16(2), root.Count)

	v, found, err := idx.Lookup(424242)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 42, v)

	for i := 0; i < LeafCap; i++ {
		v, found, err := idx.Lookup(i)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 2*i, v)
	}
}

func TestScenarioDenseAscending(t *testing.T) {
	pool := newTestPool(t, path.Join(t.TempDir(), "buzzpage.dat"), true)
	idx, err := New[int, int](pool)
	require.NoError(t, err)

	n := 40 * LeafCap
	for i := 0; i < n; i++ {
		require.NoError(t, idx.Insert(i, 2*i))
	}

	for i := 0; i < n; i++ {
		v, found, err := idx.Lookup(i)
		require.NoError(t, err)
		require.True(t, found, "key %d", i)
		assert.Equal(t, 2*i, v)
	}
}

func TestScenarioDenseDescending(t *testing.T) {
	pool := newTestPool(t, path.Join(t.TempDir(), "buzzpage.dat"), true)
	idx, err := New[int, int](pool)
	require.NoError(t, err)

	for i := 420; i >= 1; i-- {
		require.NoError(t, idx.Insert(i, 2*i))
	}

	for i := 1; i <= 420; i++ {
		v, found, err := idx.Lookup(i)
		require.NoError(t, err)
		require.True(t, found, "key %d", i)
		assert.Equal(t, 2*i, v)
	}
}

func TestScenarioOverwriteHotspot(t *testing.T) {
	pool := newTestPool(t, path.Join(t.TempDir(), "buzzpage.dat"), true)
	idx, err := New[int, int](pool)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(0))
	last := make(map[int]int)

	for i := 1; i < 10*LeafCap; i++ {
		k := rng.Intn(100)
		require.NoError(t, idx.Insert(k, i))
		last[k] = i
	}

	for k, want := range last {
		v, found, err := idx.Lookup(k)
		require.NoError(t, err)
		require.True(t, found, "key %d", k)
		assert.Equal(t, want, v)
	}
}

func TestScenarioDeleteAll(t *testing.T) {
	pool := newTestPool(t, path.Join(t.TempDir(), "buzzpage.dat"), true)
	idx, err := New[int, int](pool)
	require.NoError(t, err)

	n := 2 * LeafCap
	for i := 0; i < n; i++ {
		require.NoError(t, idx.Insert(i, 2*i))
	}

	for i := 0; i < n; i++ {
		_, found, err := idx.Lookup(i)
		require.NoError(t, err)
		require.True(t, found, "key %d", i)

		erased, err := idx.Erase(i)
		require.NoError(t, err)
		assert.True(t, erased)

		_, found, err = idx.Lookup(i)
		require.NoError(t, err)
		assert.False(t, found, "key %d", i)
	}
}

func TestScenarioPersistence(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "buzzpage.dat")
	n := 40 * LeafCap

	var root, nextPageID uint64
	{
		pool := newTestPool(t, dbPath, true)
		idx, err := New[int, int](pool)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			require.NoError(t, idx.Insert(i, 2*i))
		}

		require.NoError(t, pool.Teardown())
		root, nextPageID = idx.Root(), idx.NextPageID()
	}

	store, err := disk.Open(dbPath, false)
	require.NoError(t, err)
	defer store.Close()

	pool := buffer.New(store, replacer.NewLRU(page.MaxResident), page.MaxResident)
	idx := Reopen[int, int](pool, root, nextPageID)

	for i := 0; i < n; i++ {
		v, found, err := idx.Lookup(i)
		require.NoError(t, err)
		require.True(t, found, "key %d", i)
		assert.Equal(t, 2*i, v)
	}
}
