//go:build integration

package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Requires a network interface with multicast enabled. Devices on the
// network are logged, an empty network is not a failure.
func TestQuickScan(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultWindow+2*time.Second)
	defer cancel()

	devices, err := QuickScan(ctx)
	require.NoError(t, err)
	for _, d := range devices {
		t.Logf("%s at %s (%d targets)", d.Server, d.Location, len(d.Services))
	}
}
