package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// The fakes below mirror the MySQL repositories' contracts: every
// conditional update is performed atomically under a mutex and reports
// whether it matched, exactly like the single-statement UPDATEs they
// stand in for. That makes them safe targets for the concurrency tests
// in this package.

type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*model.Event
}

func newFakeEventStore(events ...*model.Event) *fakeEventStore {
	s := &fakeEventStore{events: make(map[string]*model.Event)}
	for _, ev := range events {
		cp := *ev
		s.events[ev.ID] = &cp
	}
	return s
}

func (s *fakeEventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (s *fakeEventStore) TryReserve(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[eventID]
	if !ok {
		return false, repository.ErrEventNotFound
	}
	if ev.TicketsSold >= ev.Capacity {
		return false, nil
	}
	ev.TicketsSold++
	return true, nil
}

func (s *fakeEventStore) Release(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	if ev.TicketsSold > 0 {
		ev.TicketsSold--
	}
	return nil
}

func (s *fakeEventStore) IsSoldOut(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[eventID]
	if !ok {
		return false, repository.ErrEventNotFound
	}
	return ev.TicketsSold >= ev.Capacity, nil
}

func (s *fakeEventStore) sold(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[eventID].TicketsSold
}

type fakeRegStore struct {
	mu   sync.Mutex
	regs map[string]*model.Registration
}

func newFakeRegStore() *fakeRegStore {
	return &fakeRegStore{regs: make(map[string]*model.Registration)}
}

func (s *fakeRegStore) CreateActive(_ context.Context, reg *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regs {
		if r.EventID == reg.EventID && r.AttendeeID == reg.AttendeeID && r.Status.Active() {
			return repository.ErrAlreadyRegistered
		}
	}
	cp := *reg
	s.regs[reg.ID] = &cp
	return nil
}

func (s *fakeRegStore) GetByID(_ context.Context, id string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok {
		return nil, repository.ErrRegistrationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRegStore) FindActive(_ context.Context, eventID, attendeeID string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regs {
		if r.EventID == eventID && r.AttendeeID == attendeeID && r.Status.Active() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrRegistrationNotFound
}

func (s *fakeRegStore) MarkConfirmed(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok || r.Status != model.RegistrationPending {
		return false, nil
	}
	r.Status = model.RegistrationConfirmed
	return true, nil
}

func (s *fakeRegStore) MarkCancelled(_ context.Context, id string, from model.RegistrationStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = model.RegistrationCancelled
	return true, nil
}

func (s *fakeRegStore) ClaimCharge(_ context.Context, id, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok || r.Status != model.RegistrationPending || r.ChargeRef != nil {
		return false, nil
	}
	cp := ref
	r.ChargeRef = &cp
	return true, nil
}

func (s *fakeRegStore) ReleaseCharge(_ context.Context, id, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.regs[id]; ok && r.ChargeRef != nil && *r.ChargeRef == ref {
		r.ChargeRef = nil
	}
	return nil
}

func (s *fakeRegStore) ListByEvent(_ context.Context, eventID string) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, r := range s.regs {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRegStore) ListByAttendee(_ context.Context, attendeeID string) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, r := range s.regs {
		if r.AttendeeID == attendeeID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRegStore) ExpiredPending(_ context.Context, now time.Time, limit int) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, r := range s.regs {
		if r.Status == model.RegistrationPending && !r.ExpiresAt.After(now) {
			out = append(out, *r)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// bindTicket is the fake's stand-in for the transactional bind: it sets
// ticket_id only when it is still unset.
func (s *fakeRegStore) bindTicket(id, ticketID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok || r.TicketID != nil {
		return false
	}
	r.TicketID = &ticketID
	return true
}

type fakeTicketStore struct {
	mu      sync.Mutex
	regs    *fakeRegStore
	tickets map[string]*model.Ticket
	byToken map[string]string
}

func newFakeTicketStore(regs *fakeRegStore) *fakeTicketStore {
	return &fakeTicketStore{
		regs:    regs,
		tickets: make(map[string]*model.Ticket),
		byToken: make(map[string]string),
	}
}

func (s *fakeTicketStore) Issue(_ context.Context, registrationID string, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.regs.bindTicket(registrationID, t.ID) {
		return repository.ErrAlreadyIssued
	}
	cp := *t
	s.tickets[t.ID] = &cp
	s.byToken[t.QRToken] = t.ID
	return nil
}

func (s *fakeTicketStore) GetByID(_ context.Context, id string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTicketStore) GetByQRToken(_ context.Context, qrToken string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[qrToken]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	cp := *s.tickets[id]
	return &cp, nil
}

func (s *fakeTicketStore) ListByAttendee(_ context.Context, attendeeID string) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Ticket
	for _, t := range s.tickets {
		if t.AttendeeID == attendeeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) CheckIn(_ context.Context, qrToken string, at time.Time) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[qrToken]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	t := s.tickets[id]
	if t.Status != model.TicketActive {
		return nil, repository.ErrTicketNotActive
	}
	if t.IsCheckedIn {
		return nil, repository.ErrAlreadyCheckedIn
	}
	t.IsCheckedIn = true
	t.CheckedInAt = &at
	cp := *t
	return &cp, nil
}

func (s *fakeTicketStore) SetStatus(_ context.Context, ticketID string, status model.TicketStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[ticketID]
	if !ok {
		return false, repository.ErrTicketNotFound
	}
	if t.Status != model.TicketActive || t.IsCheckedIn {
		return false, nil
	}
	t.Status = status
	return true, nil
}

// fakeGateway counts charges and answers with a configurable result.
type fakeGateway struct {
	mu      sync.Mutex
	charges int
	result  model.PaymentResult
	err     error
}

func approvingGateway() *fakeGateway {
	return &fakeGateway{result: model.PaymentResult{
		ReferenceID: "ref-1",
		Status:      model.PaymentCompleted,
		AmountCents: 5000,
	}}
}

func decliningGateway(reason string) *fakeGateway {
	return &fakeGateway{result: model.PaymentResult{
		ReferenceID: "ref-1",
		Status:      model.PaymentFailed,
		Reason:      reason,
	}}
}

func (g *fakeGateway) Charge(_ context.Context, _ payment.ChargeRequest) (model.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges++
	if g.err != nil {
		return model.PaymentResult{}, g.err
	}
	return g.result, nil
}

func (g *fakeGateway) chargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.charges
}

// parkedGateway blocks inside Charge until released, so a test can
// hold one confirmation mid-charge while poking at the registration
// from elsewhere.
type parkedGateway struct {
	inner   *fakeGateway
	entered chan struct{}
	release chan struct{}
}

func newParkedGateway(inner *fakeGateway) *parkedGateway {
	return &parkedGateway{
		inner:   inner,
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *parkedGateway) Charge(ctx context.Context, req payment.ChargeRequest) (model.PaymentResult, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.inner.Charge(ctx, req)
}
