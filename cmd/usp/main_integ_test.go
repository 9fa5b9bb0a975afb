// build +integration
package main_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/app/apps"
	"github.com/Awake-ctrl/Network-Programming-Lab3-UDP-Protocol/internal/app/cfg"

	"github.com/stretchr/testify/require"
)

const testPort = 29471

func TestClientServerApps(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s, err := apps.NewServerApp(cfg.NewPortCfg(testPort))
		require.NoError(t, err)
		require.NoError(t, s.Run(ctx, nil))
	}()
	go func() {
		defer wg.Done()
		// give the server a moment to bind
		time.Sleep(200 * time.Millisecond)
		c, err := apps.NewClientApp(cfg.NewAddrCfg("127.0.0.1", testPort))
		require.NoError(t, err)
		c.Input = strings.NewReader("integration hello\nq\n")
		require.NoError(t, c.Run(ctx, nil))
		cancel()
	}()
	wg.Wait()
}
