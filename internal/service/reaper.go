package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/monitoring"
)

// Reaper cancels pending registrations whose payment flow was
// abandoned, returning their seats to the ledger. The hold duration is
// operator-configured on the registrations themselves (expires_at);
// the reaper only ever releases seats through the ledger's Release, so
// the capacity invariant holds no matter how often a sweep runs or
// retries.
type Reaper struct {
	events    EventStore
	regs      RegistrationStore
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewReaper constructs a Reaper sweeping at the given interval.
func NewReaper(events EventStore, regs RegistrationStore, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reaper{
		events:    events,
		regs:      regs,
		interval:  interval,
		batchSize: 100,
		now:       time.Now,
	}
}

// Run sweeps until ctx is cancelled. Meant to be started as a
// goroutine from main.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := r.Sweep(ctx); err != nil {
				log.Printf("reaper: sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("reaper: expired %d pending registrations", n)
			}
		}
	}
}

// Sweep cancels one batch of expired pending registrations and returns
// how many it expired. The cancellation is the same conditional
// pending→cancelled transition used everywhere else, so a registration
// confirmed between the query and the update is left alone and its
// seat is not touched.
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	expired, err := r.regs.ExpiredPending(ctx, r.now().UTC(), r.batchSize)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, reg := range expired {
		ok, err := r.regs.MarkCancelled(ctx, reg.ID, model.RegistrationPending)
		if err != nil {
			return n, err
		}
		if !ok {
			continue // resolved concurrently; nothing to release
		}
		if err := r.events.Release(ctx, reg.EventID); err != nil {
			return n, err
		}
		monitoring.SeatReleased("expired")
		n++
	}
	return n, nil
}
