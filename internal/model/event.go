package model

// Event records a reservation of a single room by a single user for a
// time window on one calendar day. The identifier is a UUIDv4 string
// generated at creation time. Date and time-of-day values travel as
// normalized strings ("2006-01-02" and "15:04:05") matching the DATE
// and TIME column formats, so lexicographic comparison of two times is
// equivalent to temporal comparison.
//
// Fields:
//  EID         – UUID primary key.
//  EventName   – human readable title of the booking.
//  Date        – calendar day of the reservation.
//  StartTime   – inclusive start time-of-day.
//  EndTime     – exclusive end time-of-day ([start, end) convention).
//  ProfileName – optional description text (nil if unset).
//  RoomID      – room being reserved (events.rid).
//  UserID      – owning user (events.uid).
type Event struct {
	EID         string  `json:"eid"`          // events.eid
	EventName   string  `json:"event_name"`   // events.event_name
	Date        string  `json:"date"`         // events.date
	StartTime   string  `json:"starttime"`    // events.starttime
	EndTime     string  `json:"endtime"`      // events.endtime
	ProfileName *string `json:"profile_name"` // events.profile_name (nullable)
	RoomID      uint64  `json:"rid"`          // events.rid
	UserID      uint64  `json:"uid"`          // events.uid
}

// EventDetails is an Event joined with the room and owner attributes
// needed by the calendar listing endpoint.
type EventDetails struct {
	Event
	RoomName    string  `json:"room_name"`
	Building    string  `json:"building"`
	Floor       string  `json:"floor"`
	MaxCapacity *uint32 `json:"max_capacity"`
	UserName    string  `json:"user_name"`
}
