package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// issueTicket runs the register→confirm flow and returns the issued
// ticket plus the stack it lives in.
func issueTicket(t *testing.T, attendee string) (*model.Ticket, *fakeTicketStore) {
	t.Helper()
	ev := testEvent(10)
	svc, _, _, tickets := newTestStack(ev, approvingGateway())

	reg, err := svc.Register(context.Background(), ev.ID, attendee, model.TicketGeneral)
	require.NoError(t, err)
	_, ticket, _, err := svc.Confirm(context.Background(), reg.ID)
	require.NoError(t, err)
	return ticket, tickets
}

func TestCheckInRoundTrip(t *testing.T) {
	ticket, tickets := issueTicket(t, "alice")
	checkIns := NewCheckInService(tickets)

	admitted, err := checkIns.CheckIn(context.Background(), ticket.QRToken)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, admitted.ID)
	assert.True(t, admitted.IsCheckedIn)
	require.NotNil(t, admitted.CheckedInAt)
	assert.WithinDuration(t, time.Now().UTC(), *admitted.CheckedInAt, 5*time.Second)
}

func TestCheckInUnknownToken(t *testing.T) {
	_, tickets := issueTicket(t, "alice")
	checkIns := NewCheckInService(tickets)

	_, err := checkIns.CheckIn(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
}

func TestCheckInDuplicateScan(t *testing.T) {
	ticket, tickets := issueTicket(t, "alice")
	checkIns := NewCheckInService(tickets)

	_, err := checkIns.CheckIn(context.Background(), ticket.QRToken)
	require.NoError(t, err)

	_, err = checkIns.CheckIn(context.Background(), ticket.QRToken)
	assert.ErrorIs(t, err, repository.ErrAlreadyCheckedIn)
}

func TestCheckInCancelledTicket(t *testing.T) {
	ticket, tickets := issueTicket(t, "alice")
	checkIns := NewCheckInService(tickets)

	ok, err := tickets.SetStatus(context.Background(), ticket.ID, model.TicketCancelled)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = checkIns.CheckIn(context.Background(), ticket.QRToken)
	assert.ErrorIs(t, err, repository.ErrTicketNotActive)
}

func TestCheckInConcurrentScans(t *testing.T) {
	const scans = 10

	ticket, tickets := issueTicket(t, "alice")
	checkIns := NewCheckInService(tickets)

	var wg sync.WaitGroup
	var mu sync.Mutex
	success, duplicate := 0, 0
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := checkIns.CheckIn(context.Background(), ticket.QRToken)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, repository.ErrAlreadyCheckedIn):
				duplicate++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success, "exactly one scan admits the holder")
	assert.Equal(t, scans-1, duplicate)
}
