// Package booking implements room availability checking and the
// reservation lifecycle (create, update, delete, free-room listing).
// It sits between the HTTP handlers and the repository layer and owns
// the domain error taxonomy; handlers translate these sentinels into
// response codes with errors.Is.
package booking

import "errors"

// ErrRoomNotFound is returned when a room name or id does not resolve
// to an existing room. Handlers should translate this into 404.
var ErrRoomNotFound = errors.New("room not found")

// ErrEventNotFound is returned when an event id does not resolve.
// Handlers should translate this into 404.
var ErrEventNotFound = errors.New("event not found")

// ErrUserNotFound is returned when the user referenced by a new
// booking does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrSlotConflict is returned when a requested slot overlaps an
// existing reservation for the same room. Handlers should translate
// this into 409 for both create and update.
var ErrSlotConflict = errors.New("room is already booked for the requested time slot")

// ErrInvalidSlot is returned when a date or time window fails
// validation (malformed values, or start >= end). Handlers should
// translate this into 400.
var ErrInvalidSlot = errors.New("invalid booking slot")
