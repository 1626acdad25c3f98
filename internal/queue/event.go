package queue

import "github.com/f4ithlin/ECE464CooperBooker/internal/model"

// Queue and action names shared by the publisher and consumer.
const (
	BookingQueue = "booking.events"

	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCancelled = "cancelled"
)

// BookingEvent is the message published after a booking mutation
// commits. Consumers use it for audit logging and notifications.
type BookingEvent struct {
	Action    string  `json:"action"`
	EventID   string  `json:"event_id"`
	EventName string  `json:"event_name"`
	RoomID    uint64  `json:"rid"`
	UserID    uint64  `json:"uid"`
	Date      string  `json:"date"`
	StartTime string  `json:"starttime"`
	EndTime   string  `json:"endtime"`
	Profile   *string `json:"profile_name,omitempty"`
}

// NewBookingEvent builds a BookingEvent from a committed event row.
func NewBookingEvent(action string, ev *model.Event) BookingEvent {
	return BookingEvent{
		Action:    action,
		EventID:   ev.EID,
		EventName: ev.EventName,
		RoomID:    ev.RoomID,
		UserID:    ev.UserID,
		Date:      ev.Date,
		StartTime: ev.StartTime,
		EndTime:   ev.EndTime,
		Profile:   ev.ProfileName,
	}
}
