package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationStatusTransitions(t *testing.T) {
	assert.True(t, RegistrationPending.CanTransitionTo(RegistrationConfirmed))
	assert.True(t, RegistrationPending.CanTransitionTo(RegistrationCancelled))
	assert.True(t, RegistrationConfirmed.CanTransitionTo(RegistrationCancelled))

	// Cancelled is terminal.
	assert.False(t, RegistrationCancelled.CanTransitionTo(RegistrationPending))
	assert.False(t, RegistrationCancelled.CanTransitionTo(RegistrationConfirmed))

	// No backwards or self transitions.
	assert.False(t, RegistrationConfirmed.CanTransitionTo(RegistrationPending))
	assert.False(t, RegistrationPending.CanTransitionTo(RegistrationPending))
}

func TestRegistrationStatusActive(t *testing.T) {
	assert.True(t, RegistrationPending.Active())
	assert.True(t, RegistrationConfirmed.Active())
	assert.False(t, RegistrationCancelled.Active())
}

func TestRegistrationStatusValid(t *testing.T) {
	assert.True(t, RegistrationPending.Valid())
	assert.False(t, RegistrationStatus("expired").Valid())
	assert.False(t, RegistrationStatus("").Valid())
}

func TestTicketTypePrices(t *testing.T) {
	cases := []struct {
		tier  TicketType
		cents int64
	}{
		{TicketGeneral, 5000},
		{TicketVIP, 10000},
		{TicketAllAccess, 5000},
		{TicketCore, 1500},
		{TicketExhibitor, 2500},
		{TicketSpeaker, 3000},
		{TicketVendor, 2000},
		{TicketEventOrganizer, 7500},
		{TicketAdministrator, 10000},
	}
	for _, tc := range cases {
		assert.True(t, tc.tier.Valid(), string(tc.tier))
		assert.Equal(t, tc.cents, tc.tier.PriceCents(), string(tc.tier))
	}

	assert.False(t, TicketType("student").Valid())
	assert.Equal(t, int64(0), TicketType("student").PriceCents())
}

func TestTicketAdmits(t *testing.T) {
	tk := &Ticket{Status: TicketActive}
	assert.True(t, tk.Admits())
	assert.True(t, tk.CanBeRefunded())

	tk.IsCheckedIn = true
	assert.False(t, tk.Admits())
	assert.False(t, tk.CanBeRefunded())

	cancelled := &Ticket{Status: TicketCancelled}
	assert.False(t, cancelled.Admits())
	assert.False(t, cancelled.CanBeRefunded())
}

func TestEventCapacity(t *testing.T) {
	now := time.Now()
	ev := &Event{Capacity: 3, TicketsSold: 2, StartTime: now.Add(time.Hour)}
	assert.Equal(t, 1, ev.Remaining())
	assert.False(t, ev.IsSoldOut())
	assert.True(t, ev.CanRegister(now))

	ev.TicketsSold = 3
	assert.True(t, ev.IsSoldOut())
	assert.False(t, ev.CanRegister(now))

	started := &Event{Capacity: 10, TicketsSold: 0, StartTime: now.Add(-time.Minute)}
	assert.False(t, started.CanRegister(now))
}
