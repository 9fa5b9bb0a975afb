package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendReceiveLoopback(t *testing.T) {
	t.Parallel()
	a, err := Listen(0)
	require.NoError(t, err)
	defer a.Close()
	b, err := Listen(0)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Send([]byte("ping"), b.LocalAddr()))
	got, from, err := b.Receive(time.Second)
	require.NoError(t, err)
	require.Equal(t, []byte("ping"), got)
	// the sender's source port must match its bound port
	require.Equal(t, a.LocalAddr().(*net.UDPAddr).Port, from.(*net.UDPAddr).Port)
}

func TestReceiveTimeout(t *testing.T) {
	t.Parallel()
	c, err := Listen(0)
	require.NoError(t, err)
	defer c.Close()

	_, _, err = c.Receive(20 * time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
}
