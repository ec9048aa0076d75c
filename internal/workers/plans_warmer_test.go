package workers

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpn-storefront/internal/common/cache"
	"vpn-storefront/internal/platform/vpnapi"
)

type countingSource struct {
	calls  atomic.Int64
	forced atomic.Int64
	fail   bool
}

func (s *countingSource) GetCachedPlans(_ context.Context, opts ...cache.Option) (*vpnapi.PlansResponse, error) {
	s.calls.Add(1)
	if len(opts) > 0 {
		s.forced.Add(1)
	}
	if s.fail {
		return nil, stderrors.New("API request failed: 503")
	}
	return &vpnapi.PlansResponse{Plans: []vpnapi.Plan{{Plan: vpnapi.Plan1M}}}, nil
}

func TestPlansWarmerRefreshesOnStartAndTick(t *testing.T) {
	source := &countingSource{}
	w := NewPlansWarmer(source, 5*time.Millisecond, zerolog.Nop())

	w.Start()
	require.Eventually(t, func() bool { return w.Refreshes() >= 3 }, 2*time.Second, time.Millisecond)
	w.Stop()

	calls := source.calls.Load()
	assert.Equal(t, calls, source.forced.Load(), "every refresh bypasses the cache")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, source.calls.Load(), "no refreshes after stop")
}

func TestPlansWarmerKeepsGoingOnFailure(t *testing.T) {
	source := &countingSource{fail: true}
	w := NewPlansWarmer(source, 5*time.Millisecond, zerolog.Nop())

	w.Start()
	require.Eventually(t, func() bool { return source.calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	w.Stop()

	assert.Zero(t, w.Refreshes())
}

func TestPlansWarmerDisabled(t *testing.T) {
	source := &countingSource{}
	w := NewPlansWarmer(source, 0, zerolog.Nop())

	w.Start()
	w.Stop()

	assert.Zero(t, source.calls.Load())
}
