package booking

import (
	"context"

	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
)

// RoomStore is the subset of room persistence the booking core needs.
// The repository layer implements it against MySQL; tests supply
// in-memory fakes.
type RoomStore interface {
	// GetByName resolves a room by its unique display name,
	// returning ErrRoomNotFound when absent.
	GetByName(ctx context.Context, name string) (*model.Room, error)
	// ListAvailable returns rooms matching the filters that have
	// zero events overlapping the query window, ordered by room
	// name ascending, case-insensitively.
	ListAvailable(ctx context.Context, q AvailableRoomsQuery) ([]model.Room, error)
}

// EventStore is the event persistence contract. CreateIfAvailable and
// UpdateIfAvailable perform the conflict check and the write inside a
// single transaction so that two concurrent requests for the same slot
// cannot both succeed.
type EventStore interface {
	GetByID(ctx context.Context, eid string) (*model.Event, error)
	// FindOverlapping returns events for the room and date whose
	// [starttime, endtime) interval overlaps [start, end), skipping
	// excludeEID when non-empty.
	FindOverlapping(ctx context.Context, roomID uint64, date, start, end, excludeEID string) ([]model.Event, error)
	// CreateIfAvailable atomically re-checks the slot and inserts,
	// returning ErrSlotConflict when the slot is taken.
	CreateIfAvailable(ctx context.Context, ev *model.Event) error
	// UpdateIfAvailable atomically re-checks the slot (excluding the
	// event itself) and overwrites title, room, date and times.
	// Returns ErrSlotConflict or ErrEventNotFound.
	UpdateIfAvailable(ctx context.Context, ev *model.Event) error
	// Delete removes an event, returning ErrEventNotFound when
	// no row matched.
	Delete(ctx context.Context, eid string) error
}

// UserStore resolves user references at booking time.
type UserStore interface {
	// GetByID returns ErrUserNotFound when the user does not exist.
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// AvailableRoomsQuery filters the free-room listing. Building and
// MinCapacity are optional (zero values mean "no filter").
type AvailableRoomsQuery struct {
	Window      Window
	Building    string
	MinCapacity uint32
}

// AvailabilityChecker answers whether a room is free for a slot. It is
// read-only; the write path re-checks inside the store transaction.
type AvailabilityChecker struct {
	rooms  RoomStore
	events EventStore
}

// NewAvailabilityChecker constructs a checker over the given stores.
func NewAvailabilityChecker(rooms RoomStore, events EventStore) *AvailabilityChecker {
	return &AvailabilityChecker{rooms: rooms, events: events}
}

// IsAvailable reports whether the room named roomName has no event on
// the window's date overlapping the window. excludeEID, when
// non-empty, names an event to skip so that an edit does not conflict
// with itself. The room name must resolve (ErrRoomNotFound otherwise).
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, roomName string, w Window, excludeEID string) (bool, error) {
	room, err := c.rooms.GetByName(ctx, roomName)
	if err != nil {
		return false, err
	}
	overlapping, err := c.events.FindOverlapping(ctx, room.ID, w.Date, w.Start, w.End, excludeEID)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}
