package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// seedPending reserves a seat and plants a pending registration with
// the given expiry, bypassing the service so tests control the clock.
func seedPending(t *testing.T, events *fakeEventStore, regs *fakeRegStore, eventID, attendee string, expiresAt time.Time) *model.Registration {
	t.Helper()
	granted, err := events.TryReserve(context.Background(), eventID)
	require.NoError(t, err)
	require.True(t, granted)

	reg := &model.Registration{
		ID:           uuid.New().String(),
		EventID:      eventID,
		AttendeeID:   attendee,
		TicketType:   model.TicketGeneral,
		Status:       model.RegistrationPending,
		RegisteredAt: time.Now().UTC(),
		ExpiresAt:    expiresAt,
	}
	require.NoError(t, regs.CreateActive(context.Background(), reg))
	return reg
}

func TestReaperExpiresPendingHolds(t *testing.T) {
	now := time.Now().UTC()
	ev := testEvent(10)
	events := newFakeEventStore(ev)
	regs := newFakeRegStore()

	stale := seedPending(t, events, regs, ev.ID, "alice", now.Add(-time.Minute))
	live := seedPending(t, events, regs, ev.ID, "bob", now.Add(10*time.Minute))
	require.Equal(t, 2, events.sold(ev.ID))

	reaper := NewReaper(events, regs, time.Minute)
	reaper.now = func() time.Time { return now }

	n, err := reaper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, events.sold(ev.ID), "only the expired hold returns its seat")

	staleFresh, err := regs.GetByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationCancelled, staleFresh.Status)

	liveFresh, err := regs.GetByID(context.Background(), live.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationPending, liveFresh.Status)
}

func TestReaperLeavesConfirmedAlone(t *testing.T) {
	now := time.Now().UTC()
	ev := testEvent(10)
	events := newFakeEventStore(ev)
	regs := newFakeRegStore()

	reg := seedPending(t, events, regs, ev.ID, "alice", now.Add(-time.Minute))
	// Confirmed between the expiry query and the sweep.
	ok, err := regs.MarkConfirmed(context.Background(), reg.ID)
	require.NoError(t, err)
	require.True(t, ok)

	reaper := NewReaper(events, regs, time.Minute)
	reaper.now = func() time.Time { return now }

	n, err := reaper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, events.sold(ev.ID), "a confirmed registration keeps its seat")
}

func TestReaperSweepIsIdempotent(t *testing.T) {
	now := time.Now().UTC()
	ev := testEvent(10)
	events := newFakeEventStore(ev)
	regs := newFakeRegStore()

	seedPending(t, events, regs, ev.ID, "alice", now.Add(-time.Minute))

	reaper := NewReaper(events, regs, time.Minute)
	reaper.now = func() time.Time { return now }

	n, err := reaper.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// A second sweep finds nothing and releases nothing.
	n, err = reaper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, events.sold(ev.ID))
}
