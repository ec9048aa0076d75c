package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/metrics"
)

// Role names the kind of background loop a flow runs.
type Role string

const (
	RoleCrypto  Role = "crypto"
	RolePending Role = "pending"
	RoleStars   Role = "stars"
)

type pollKey struct {
	identity int64
	role     Role
}

type pollLoop struct {
	id     uint64
	cancel context.CancelFunc
}

// Poller runs at most one loop per (identity, role). Starting a loop for a
// key cancels the loop already running under it.
type Poller struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger

	mu    sync.Mutex
	loops map[pollKey]*pollLoop
	seq   uint64
	wg    sync.WaitGroup
}

func NewPoller(logger zerolog.Logger) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		loops:  make(map[pollKey]*pollLoop),
	}
}

// Start launches run in its own goroutine. It returns false once StopAll
// has been called.
func (p *Poller) Start(identity int64, role Role, run func(ctx context.Context)) bool {
	key := pollKey{identity: identity, role: role}

	p.mu.Lock()
	if p.ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	if prev, ok := p.loops[key]; ok {
		prev.cancel()
		p.logger.Debug().Int64("identity", identity).Str("role", string(role)).Msg("replacing running loop")
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.seq++
	loop := &pollLoop{id: p.seq, cancel: cancel}
	p.loops[key] = loop
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		gauge := metrics.PaymentPollersActive.WithLabelValues(string(role))
		gauge.Inc()
		defer p.wg.Done()
		defer gauge.Dec()
		defer p.finish(key, loop)
		run(ctx)
	}()
	return true
}

func (p *Poller) finish(key pollKey, loop *pollLoop) {
	loop.cancel()
	p.mu.Lock()
	if cur, ok := p.loops[key]; ok && cur.id == loop.id {
		delete(p.loops, key)
	}
	p.mu.Unlock()
}

func (p *Poller) Active(identity int64, role Role) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.loops[pollKey{identity: identity, role: role}]
	return ok
}

// StopAll cancels every loop and waits for them to return.
func (p *Poller) StopAll() {
	p.mu.Lock()
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()
}
