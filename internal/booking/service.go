package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
)

// CreateRequest carries the fields of a new booking. RoomName is the
// human facing room identifier; the service resolves it to a room id.
type CreateRequest struct {
	RoomName    string
	Date        string
	StartTime   string
	EndTime     string
	EventName   string
	UserID      uint64
	ProfileName *string
}

// UpdateRequest overwrites an existing booking's title, room, date and
// time window. The event id and owning user never change.
type UpdateRequest struct {
	EventID   string
	EventName string
	RoomName  string
	Date      string
	StartTime string
	EndTime   string
}

// Service orchestrates the reservation lifecycle: it validates slots,
// resolves room and user references, consults the availability
// checker, and delegates the atomic conflict-check-then-write to the
// event store.
type Service struct {
	rooms   RoomStore
	events  EventStore
	users   UserStore
	checker *AvailabilityChecker
}

// NewService constructs a Service. All stores must be non-nil.
func NewService(rooms RoomStore, events EventStore, users UserStore) *Service {
	if rooms == nil || events == nil || users == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{
		rooms:   rooms,
		events:  events,
		users:   users,
		checker: NewAvailabilityChecker(rooms, events),
	}
}

// IsAvailable exposes the read-only availability check. excludeEID may
// be empty.
func (s *Service) IsAvailable(ctx context.Context, roomName, date, start, end, excludeEID string) (bool, error) {
	w, err := ParseWindow(date, start, end)
	if err != nil {
		return false, err
	}
	return s.checker.IsAvailable(ctx, roomName, w, excludeEID)
}

// Create books a room. It validates the window, resolves the room name
// and the user, then inserts the event with a fresh UUID. The insert
// re-checks the slot inside the store transaction, so a concurrent
// request for an overlapping slot fails with ErrSlotConflict instead
// of double-booking.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Event, error) {
	if strings.TrimSpace(req.EventName) == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalidSlot)
	}
	w, err := ParseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByName(ctx, req.RoomName)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	ev := &model.Event{
		EID:         uuid.NewString(),
		EventName:   strings.TrimSpace(req.EventName),
		Date:        w.Date,
		StartTime:   w.Start,
		EndTime:     w.End,
		ProfileName: req.ProfileName,
		RoomID:      room.ID,
		UserID:      req.UserID,
	}
	if err := s.events.CreateIfAvailable(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Update re-books an existing event into a (possibly different) room
// and window. The event itself is excluded from the conflict search so
// an unchanged slot never conflicts with itself. Identifier and owner
// are preserved.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*model.Event, error) {
	if strings.TrimSpace(req.EventName) == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalidSlot)
	}
	w, err := ParseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	current, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByName(ctx, req.RoomName)
	if err != nil {
		return nil, err
	}
	ev := &model.Event{
		EID:         current.EID,
		EventName:   strings.TrimSpace(req.EventName),
		Date:        w.Date,
		StartTime:   w.Start,
		EndTime:     w.End,
		ProfileName: current.ProfileName,
		RoomID:      room.ID,
		UserID:      current.UserID,
	}
	if err := s.events.UpdateIfAvailable(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Delete removes an event unconditionally; removal cannot create an
// overlap, so no availability check is involved. The deleted event is
// returned so callers can publish a cancellation notice.
func (s *Service) Delete(ctx context.Context, eid string) (*model.Event, error) {
	ev, err := s.events.GetByID(ctx, eid)
	if err != nil {
		return nil, err
	}
	if err := s.events.Delete(ctx, eid); err != nil {
		return nil, err
	}
	return ev, nil
}

// Get returns a single event by id.
func (s *Service) Get(ctx context.Context, eid string) (*model.Event, error) {
	return s.events.GetByID(ctx, eid)
}

// AvailableRooms lists rooms free for the given slot, optionally
// filtered by building and minimum capacity, ordered by room name.
func (s *Service) AvailableRooms(ctx context.Context, date, start, end, building string, minCapacity uint32) ([]model.Room, error) {
	w, err := ParseWindow(date, start, end)
	if err != nil {
		return nil, err
	}
	return s.rooms.ListAvailable(ctx, AvailableRoomsQuery{
		Window:      w,
		Building:    building,
		MinCapacity: minCapacity,
	})
}
