package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

func TestIssueConcurrentMintsOneTicket(t *testing.T) {
	const attempts = 8

	ev := testEvent(10)
	svc, _, regs, tickets := newTestStack(ev, approvingGateway())
	issuer := NewTicketService(regs, tickets)

	reg, err := svc.Register(context.Background(), ev.ID, "alice", model.TicketGeneral)
	require.NoError(t, err)
	ok, err := regs.MarkConfirmed(context.Background(), reg.ID)
	require.NoError(t, err)
	require.True(t, ok)
	reg.Status = model.RegistrationConfirmed

	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := map[string]int{}
	mints := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cp := *reg // each retry starts from the pre-issuance snapshot
			ticket, minted, err := issuer.Issue(context.Background(), &cp)
			if err != nil {
				t.Errorf("issue: %v", err)
				return
			}
			mu.Lock()
			ids[ticket.ID]++
			if minted {
				mints++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1, "all retries resolve to the same ticket")
	assert.Equal(t, 1, mints, "exactly one caller mints")

	fresh, err := regs.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.TicketID)
	_, bound := ids[*fresh.TicketID]
	assert.True(t, bound, "the bound ticket is the one everyone got")
}

func TestRefundBeforeCheckIn(t *testing.T) {
	ticket, tickets := issueTicket(t, "alice")
	regs := newFakeRegStore()
	issuer := NewTicketService(regs, tickets)

	refunded, err := issuer.Refund(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketRefunded, refunded.Status)
}

func TestRefundBlockedAfterCheckIn(t *testing.T) {
	ticket, tickets := issueTicket(t, "alice")
	regs := newFakeRegStore()
	issuer := NewTicketService(regs, tickets)

	_, err := tickets.CheckIn(context.Background(), ticket.QRToken, time.Now().UTC())
	require.NoError(t, err)

	_, err = issuer.Refund(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyCheckedIn)
}

func TestCancelAlreadyRetiredTicket(t *testing.T) {
	ticket, tickets := issueTicket(t, "alice")
	regs := newFakeRegStore()
	issuer := NewTicketService(regs, tickets)

	_, err := issuer.Cancel(context.Background(), ticket.ID)
	require.NoError(t, err)

	_, err = issuer.Cancel(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, repository.ErrTicketNotActive)
}

func TestValidateQRToken(t *testing.T) {
	ticket, tickets := issueTicket(t, "alice")
	regs := newFakeRegStore()
	issuer := NewTicketService(regs, tickets)

	found, err := issuer.ValidateQRToken(context.Background(), ticket.QRToken)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, found.ID)
	assert.True(t, found.Admits())

	_, err = issuer.ValidateQRToken(context.Background(), "bogus")
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
}

func TestQRTokensAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := newQRToken()
		require.NoError(t, err)
		assert.Len(t, token, 64)
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
}
