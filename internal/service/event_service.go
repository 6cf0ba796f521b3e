package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// EventService handles event CRUD and validation. Capacity mutations
// are not exposed here; they belong to the ledger operations on the
// event repository.
type EventService struct {
	events *repository.EventRepo
	now    func() time.Time
}

// NewEventService constructs an EventService.
func NewEventService(events *repository.EventRepo) *EventService {
	return &EventService{events: events, now: time.Now}
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	OrganizerID string    `json:"organizer_id"`
	VenueID     string    `json:"venue_id"`
	Capacity    int       `json:"capacity"`
}

// Create validates the request and persists the event.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	if req.Capacity <= 0 {
		return nil, errors.New("capacity must be a positive integer")
	}
	if !req.EndTime.IsZero() && req.EndTime.Before(req.StartTime) {
		return nil, errors.New("end_time must not be before start_time")
	}
	event := &model.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		OrganizerID: req.OrganizerID,
		VenueID:     req.VenueID,
		Capacity:    req.Capacity,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get returns a single event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// IsSoldOut reports whether the event has no free seats. Advisory
// only; registration still goes through the ledger's atomic reserve.
func (s *EventService) IsSoldOut(ctx context.Context, id string) (bool, error) {
	return s.events.IsSoldOut(ctx, id)
}
