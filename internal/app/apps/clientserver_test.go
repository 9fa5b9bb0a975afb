package apps

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/client"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/server"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/session"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/pkg/transport"

	"github.com/stretchr/testify/require"
)

func TestNewServerAppValidatesPort(t *testing.T) {
	t.Parallel()
	_, err := NewServerApp()
	require.Error(t, err)
}

func TestNewClientAppValidatesAddr(t *testing.T) {
	t.Parallel()
	_, err := NewClientApp()
	require.Error(t, err)
}

// TestClientServerSession runs a real client against a real server over
// loopback UDP: handshake, one data exchange, then a graceful goodbye.
func TestClientServerSession(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	conn, err := transport.Listen(0)
	require.NoError(t, err)
	defer conn.Close()
	store := session.NewMemoryStore()
	srv, err := server.NewServer(
		server.WithConn(conn),
		server.WithSessionStore(store),
		server.WithTick(50*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srvDone := make(chan error, 1)
	go func() { srvDone <- srv.Run(ctx) }()

	port := uint16(conn.LocalAddr().(*net.UDPAddr).Port)
	c, err := client.NewClient(
		client.WithServerAddr("127.0.0.1", port),
		client.WithInput(strings.NewReader("hello over loopback\nq\n")),
		client.WithPollInterval(50*time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	require.NoError(t, c.Run(ctx))
	require.Equal(t, client.StateTerminated, c.State())

	// the goodbye exchange removed the session from the table
	require.Eventually(t, func() bool {
		return len(store.IDs()) == 0
	}, 2*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-srvDone)
}
