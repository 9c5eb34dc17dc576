//go:build integration

package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Requires a network interface with multicast enabled.
func TestNewMulticastJoinsGroup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loopback = true

	m, err := NewMulticast(cfg)
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, m.Send(ctx, []byte("M-SEARCH * HTTP/1.1\r\n\r\n"), m.Group()))
	t.Logf("bound to %s", m.LocalAddr())
}
