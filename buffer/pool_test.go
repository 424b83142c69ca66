package buffer

import (
	"bytes"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkim94gatech/buzzpage/page"
	"github.com/lkim94gatech/buzzpage/replacer"
	"github.com/lkim94gatech/buzzpage/storage/disk"
)

func newTestPool(t *testing.T, capacity int) *BufferPool {
	t.Helper()
	store, err := disk.Open(path.Join(t.TempDir(), "buzzpage.dat"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return New(store, replacer.NewLRU(capacity), capacity)
}

func TestFixPageLoadsFromStore(t *testing.T) {
	pool := newTestPool(t, 5)

	guard, err := pool.FixPage(1)
	require.NoError(t, err)

	assert.Equal(t, make([]byte, page.Size), guard.Data())
	guard.Unfix()
}

func TestFixPageMutationSurvivesUnfixAndRefix(t *testing.T) {
	pool := newTestPool(t, 5)

	guard, err := pool.FixPage(1)
	require.NoError(t, err)
	copy(guard.Data(), []byte("hello"))
	guard.Unfix()

	guard2, err := pool.FixPage(1)
	require.NoError(t, err)
	defer guard2.Unfix()

	assert.True(t, bytes.HasPrefix(guard2.Data(), []byte("hello")))
}

func TestFixPageEvictsLeastRecentlyUsed(t *testing.T) {
	pool := newTestPool(t, 2)

	g1, err := pool.FixPage(1)
	require.NoError(t, err)
	copy(g1.Data(), []byte("one"))
	g1.Unfix()

	g2, err := pool.FixPage(2)
	require.NoError(t, err)
	copy(g2.Data(), []byte("two"))
	g2.Unfix()

	// touching 1 again makes 2 the LRU victim
	g1again, err := pool.FixPage(1)
	require.NoError(t, err)
	g1again.Unfix()

	g3, err := pool.FixPage(3)
	require.NoError(t, err)
	copy(g3.Data(), []byte("three"))
	g3.Unfix()

	_, stillResident := pool.resident[2]
	assert.False(t, stillResident)

	g2reload, err := pool.FixPage(2)
	require.NoError(t, err)
	defer g2reload.Unfix()
	assert.True(t, bytes.HasPrefix(g2reload.Data(), []byte("two")))
}

func TestFixPageReentrancyPanics(t *testing.T) {
	pool := newTestPool(t, 5)

	guard, err := pool.FixPage(1)
	require.NoError(t, err)
	defer guard.Unfix()

	assert.Panics(t, func() {
		_, _ = pool.FixPage(2)
	})
}

func TestTeardownFlushesResidentPages(t *testing.T) {
	pool := newTestPool(t, 5)

	guard, err := pool.FixPage(9)
	require.NoError(t, err)
	copy(guard.Data(), []byte("durable"))
	guard.Unfix()

	require.NoError(t, pool.Teardown())

	got, err := pool.store.Load(9)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(got.Bytes(), []byte("durable")))
}
