package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vpn-storefront/internal/features/payment/models"
)

type flowClock struct{ t time.Time }

func (c *flowClock) now() time.Time { return c.t }

func TestFlowTrackerDropsOldFinishedFlows(t *testing.T) {
	clock := &flowClock{t: time.Unix(1_700_000_000, 0)}
	tracker := newFlowTracker(clock.now)

	tracker.set(1, models.ChannelCrypto, models.StateResolvedSuccess, "")
	tracker.set(2, models.ChannelSBP, models.StateAwaitingConfirmation, "")

	clock.t = clock.t.Add(finishedFlowRetention + time.Minute)
	assert.Equal(t, models.StateIdle, tracker.get(1, models.ChannelCrypto).State)
	assert.Empty(t, tracker.list(1))
	assert.Equal(t, models.StateAwaitingConfirmation, tracker.get(2, models.ChannelSBP).State)

	tracker.set(3, models.ChannelCard, models.StateCreating, "")
	assert.Equal(t, 2, tracker.size())
}

func TestFlowTrackerDropsAbandonedOpenFlows(t *testing.T) {
	clock := &flowClock{t: time.Unix(1_700_000_000, 0)}
	tracker := newFlowTracker(clock.now)

	tracker.set(2, models.ChannelSBP, models.StateAwaitingConfirmation, "")

	clock.t = clock.t.Add(openFlowRetention + time.Minute)
	tracker.resolveAwaiting(2, models.StateResolvedSuccess, models.ChannelSBP)
	assert.Equal(t, models.StateIdle, tracker.get(2, models.ChannelSBP).State)

	tracker.set(3, models.ChannelCard, models.StateCreating, "")
	assert.Equal(t, 1, tracker.size())
}

func TestFlowTrackerSweepsAtMostOncePerInterval(t *testing.T) {
	clock := &flowClock{t: time.Unix(1_700_000_000, 0)}
	tracker := newFlowTracker(clock.now)

	tracker.set(1, models.ChannelStars, models.StateAbandoned, "")
	clock.t = clock.t.Add(finishedFlowRetention + time.Second)
	tracker.set(2, models.ChannelStars, models.StateCreating, "")
	assert.Equal(t, 1, tracker.size())

	tracker.set(3, models.ChannelStars, models.StateAbandoned, "")
	clock.t = clock.t.Add(finishedFlowRetention + time.Second)
	tracker.set(4, models.ChannelStars, models.StateCreating, "")
	assert.Equal(t, 2, tracker.size())
}
