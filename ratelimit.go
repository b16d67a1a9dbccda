package conceptcard

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces out outgoing calls to one provider with a token bucket, so
// bursts of analyses stay inside the provider's requests-per-minute quota
// instead of failing with a quota error.
type Pacer struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	perSec   float64
	last     time.Time
	now      func() time.Time
}

// NewPacer allows rpm calls per minute with bursts of up to burst calls.
// A non-positive burst defaults to one call.
func NewPacer(rpm, burst int) *Pacer {
	if rpm <= 0 {
		rpm = 60
	}
	if burst <= 0 {
		burst = 1
	}
	p := &Pacer{
		tokens:   float64(burst),
		capacity: float64(burst),
		perSec:   float64(rpm) / 60,
		now:      time.Now,
	}
	p.last = p.now()
	return p
}

// Wait blocks until a call may proceed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.tryAcquire() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for {
		delay := p.reserve()
		if delay == 0 {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire takes a token if one is available.
func (p *Pacer) tryAcquire() bool {
	return p.reserve() == 0
}

// available returns the tokens currently in the bucket.
func (p *Pacer) available() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refill()
	return p.tokens
}

// reserve takes a token and returns 0, or returns how long until the next
// token arrives.
func (p *Pacer) reserve() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refill()
	if p.tokens >= 1 {
		p.tokens--
		return 0
	}
	missing := 1 - p.tokens
	return time.Duration(missing / p.perSec * float64(time.Second))
}

// refill must be called with mu held.
func (p *Pacer) refill() {
	now := p.now()
	p.tokens += now.Sub(p.last).Seconds() * p.perSec
	if p.tokens > p.capacity {
		p.tokens = p.capacity
	}
	p.last = now
}

// PacedAdapter waits for its pacer before every call to the wrapped adapter.
type PacedAdapter struct {
	adapter Adapter
	pacer   *Pacer
}

// NewPacedAdapter wraps adapter so it is called at most rpm times a minute.
func NewPacedAdapter(adapter Adapter, rpm int) *PacedAdapter {
	return &PacedAdapter{adapter: adapter, pacer: NewPacer(rpm, 1)}
}

// Analyze implements Adapter.
func (a *PacedAdapter) Analyze(ctx context.Context, concept string) (Analysis, error) {
	if err := a.pacer.Wait(ctx); err != nil {
		return Analysis{}, err
	}
	return a.adapter.Analyze(ctx, concept)
}

var _ Adapter = (*PacedAdapter)(nil)
