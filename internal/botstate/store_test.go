package botstate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "botstate.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOffsetZeroOnFreshStore(t *testing.T) {
	store := openTestStore(t)

	offset, err := store.Offset()
	require.NoError(t, err)
	require.Zero(t, offset)
}

func TestOffsetRoundtrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetOffset(1042))

	offset, err := store.Offset()
	require.NoError(t, err)
	require.Equal(t, int64(1042), offset)

	require.NoError(t, store.SetOffset(1043))
	offset, err = store.Offset()
	require.NoError(t, err)
	require.Equal(t, int64(1043), offset)
}

func TestOffsetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botstate.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SetOffset(7))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	offset, err := reopened.Offset()
	require.NoError(t, err)
	require.Equal(t, int64(7), offset)
}

func TestPing(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Ping())

	var closed *Store
	require.Error(t, closed.Ping())
}
