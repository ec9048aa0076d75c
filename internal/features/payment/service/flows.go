package service

import (
	"sort"
	"sync"
	"time"

	"vpn-storefront/internal/common/metrics"
	"vpn-storefront/internal/features/payment/models"
)

const (
	// finished flows stay observable this long after their last update
	finishedFlowRetention = time.Hour
	// flows that never finish, e.g. a redirect the user never came back from
	openFlowRetention = 24 * time.Hour
	flowSweepInterval = time.Minute
)

type flowKey struct {
	identity int64
	channel  models.Channel
}

// flowTracker keeps the last state of every (identity, channel) flow.
// Old entries are swept on write and hidden on read.
type flowTracker struct {
	now func() time.Time

	mu        sync.RWMutex
	flows     map[flowKey]models.FlowState
	lastSweep time.Time
}

func newFlowTracker(now func() time.Time) *flowTracker {
	return &flowTracker{now: now, flows: make(map[flowKey]models.FlowState)}
}

func (t *flowTracker) set(identity int64, channel models.Channel, state models.State, errMsg string) {
	metrics.PaymentFlowsTotal.WithLabelValues(string(channel), string(state)).Inc()

	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flows[flowKey{identity, channel}] = models.FlowState{
		Channel:   channel,
		State:     state,
		Error:     errMsg,
		UpdatedAt: now,
	}
	t.sweepLocked(now)
}

func flowExpired(fs models.FlowState, now time.Time) bool {
	age := now.Sub(fs.UpdatedAt)
	if fs.State.Terminal() {
		return age > finishedFlowRetention
	}
	return age > openFlowRetention
}

// sweepLocked drops expired flows, at most once per sweep interval.
func (t *flowTracker) sweepLocked(now time.Time) {
	if now.Sub(t.lastSweep) < flowSweepInterval {
		return
	}
	t.lastSweep = now
	for key, fs := range t.flows {
		if flowExpired(fs, now) {
			delete(t.flows, key)
		}
	}
}

func (t *flowTracker) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.flows)
}

func (t *flowTracker) get(identity int64, channel models.Channel) models.FlowState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if fs, ok := t.flows[flowKey{identity, channel}]; ok && !flowExpired(fs, t.now()) {
		return fs
	}
	return models.FlowState{Channel: channel, State: models.StateIdle}
}

// resolveAwaiting moves the listed channels out of awaiting_confirmation.
// Flows in any other state are left alone.
func (t *flowTracker) resolveAwaiting(identity int64, state models.State, channels ...models.Channel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range channels {
		key := flowKey{identity, ch}
		fs, ok := t.flows[key]
		if !ok || fs.State != models.StateAwaitingConfirmation || flowExpired(fs, t.now()) {
			continue
		}
		fs.State = state
		fs.UpdatedAt = t.now()
		t.flows[key] = fs
		metrics.PaymentFlowsTotal.WithLabelValues(string(ch), string(state)).Inc()
	}
}

func (t *flowTracker) list(identity int64) []models.FlowState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	now := t.now()
	out := make([]models.FlowState, 0, 4)
	for key, fs := range t.flows {
		if key.identity == identity && !flowExpired(fs, now) {
			out = append(out, fs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	return out
}
