package session

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

var peer = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}

func TestNewGetClear(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()

	rec, err := store.New(0xabcd, peer)
	require.NoError(t, err)
	require.Equal(t, uint32(0xabcd), rec.ID)
	require.Equal(t, peer, rec.Addr)
	require.Zero(t, rec.ExpectedSeq)
	require.True(t, rec.Active)
	require.NotNil(t, rec.Clock)
	require.False(t, rec.LastActivity.IsZero())

	got, err := store.Get(0xabcd)
	require.NoError(t, err)
	require.Same(t, rec, got)

	require.NoError(t, store.Clear(0xabcd))
	_, err = store.Get(0xabcd)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, store.Clear(0xabcd), ErrSessionNotFound)
}

func TestNewDuplicateID(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	_, err := store.New(7, peer)
	require.NoError(t, err)
	_, err = store.New(7, peer)
	require.ErrorIs(t, err, ErrSessionAlreadyExists)
}

func TestIDsSnapshot(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	for id := uint32(1); id <= 3; id++ {
		_, err := store.New(id, peer)
		require.NoError(t, err)
	}
	ids := store.IDs()
	require.ElementsMatch(t, []uint32{1, 2, 3}, ids)

	// removing while iterating the snapshot is safe
	for _, id := range ids {
		require.NoError(t, store.Clear(id))
	}
	require.Empty(t, store.IDs())
}
