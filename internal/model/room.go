package model

// Room represents a bookable room as stored in the `rooms` table.
// Room names are unique campus-wide and act as the human facing
// identifier; numeric IDs are internal. Rooms belong to exactly one
// building out of a fixed set and are never deleted by the booking
// flow. These structs are serialized directly by the browse and
// availability handlers, so the json tags follow the column names.
//
// Fields:
//  ID          – primary key identifier.
//  RoomName    – unique display name (e.g. "FDN-301").
//  FormalName  – optional formal/long name (nil if unset).
//  MaxCapacity – optional maximum occupancy (nil if unknown).
//  Building    – building enum value ("Foundation" or "41CS").
//  Floor       – floor label within the building.
type Room struct {
	ID          uint64  `json:"rid"`          // rooms.id
	RoomName    string  `json:"room_name"`    // rooms.room_name
	FormalName  *string `json:"formal_name"`  // rooms.formal_name (nullable)
	MaxCapacity *uint32 `json:"max_capacity"` // rooms.max_capacity (nullable)
	Building    string  `json:"building"`     // rooms.building
	Floor       string  `json:"floor"`        // rooms.floor
}

// Buildings is the fixed set of valid building values, mirroring the
// ENUM on rooms.building.
var Buildings = []string{"Foundation", "41CS"}

// RoomDetails augments a Room with the names of its features for the
// room-details endpoint.
type RoomDetails struct {
	Room
	Features []string `json:"features"`
}
