package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
)

// RoomRepo provides read access to rooms and their features. Rooms are
// administrative data: this service never inserts or deletes them, so
// the repository exposes lookups and filtered listings only.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `r.id, r.room_name, r.formal_name, r.max_capacity, r.building, r.floor`

// scanRoom reads one room row, converting nullable columns to pointers.
func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var (
		rm       model.Room
		formal   sql.NullString
		capacity sql.NullInt64
	)
	if err := row.Scan(&rm.ID, &rm.RoomName, &formal, &capacity, &rm.Building, &rm.Floor); err != nil {
		return nil, err
	}
	if formal.Valid {
		f := formal.String
		rm.FormalName = &f
	}
	if capacity.Valid {
		c := uint32(capacity.Int64)
		rm.MaxCapacity = &c
	}
	return &rm, nil
}

// GetByName resolves a room by its unique display name. It returns
// booking.ErrRoomNotFound when no row matches.
func (r *RoomRepo) GetByName(ctx context.Context, name string) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms r WHERE r.room_name = ?`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRoomNotFound
		}
		return nil, err
	}
	return rm, nil
}

// List returns rooms matching the optional building, floor and minimum
// capacity filters, ordered by name.
func (r *RoomRepo) List(ctx context.Context, building, floor string, minCapacity uint32) ([]model.Room, error) {
	where := []string{"1=1"}
	args := []any{}
	if building != "" {
		where = append(where, "r.building = ?")
		args = append(args, building)
	}
	if floor != "" {
		where = append(where, "r.floor = ?")
		args = append(args, floor)
	}
	if minCapacity > 0 {
		where = append(where, "r.max_capacity >= ?")
		args = append(args, minCapacity)
	}
	q := `SELECT ` + roomColumns + ` FROM rooms r WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY LOWER(r.room_name) ASC`
	return r.queryRooms(ctx, q, args...)
}

// ListAvailable returns rooms with zero events overlapping the query
// window on its date, using the same canonical half-open overlap rule
// as the availability checker: an event conflicts iff
// starttime < windowEnd AND endtime > windowStart. Results are ordered
// by room name ascending, case-insensitively.
func (r *RoomRepo) ListAvailable(ctx context.Context, q booking.AvailableRoomsQuery) ([]model.Room, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.Building != "" {
		where = append(where, "r.building = ?")
		args = append(args, q.Building)
	}
	if q.MinCapacity > 0 {
		where = append(where, "r.max_capacity >= ?")
		args = append(args, q.MinCapacity)
	}
	sqlq := `SELECT ` + roomColumns + `
             FROM rooms r
             WHERE ` + strings.Join(where, " AND ") + `
               AND NOT EXISTS (
                   SELECT 1 FROM events e
                   WHERE e.rid = r.id
                     AND e.date = ?
                     AND e.starttime < ?
                     AND e.endtime > ?
               )
             ORDER BY LOWER(r.room_name) ASC`
	args = append(args, q.Window.Date, q.Window.End, q.Window.Start)
	return r.queryRooms(ctx, sqlq, args...)
}

func (r *RoomRepo) queryRooms(ctx context.Context, q string, args ...any) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBuildings returns the distinct building values present in the
// rooms table, ordered alphabetically.
func (r *RoomRepo) ListBuildings(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT building FROM rooms ORDER BY building`
	return r.queryStrings(ctx, q)
}

// ListFloors returns the distinct floors of one building.
func (r *RoomRepo) ListFloors(ctx context.Context, building string) ([]string, error) {
	const q = `SELECT DISTINCT floor FROM rooms WHERE building = ? ORDER BY floor`
	return r.queryStrings(ctx, q, building)
}

func (r *RoomRepo) queryStrings(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetails returns a room by name along with its feature names,
// ordered alphabetically. Returns booking.ErrRoomNotFound for unknown
// rooms; a room without features yields an empty list.
func (r *RoomRepo) GetDetails(ctx context.Context, roomName string) (*model.RoomDetails, error) {
	rm, err := r.GetByName(ctx, roomName)
	if err != nil {
		return nil, err
	}
	const q = `SELECT f.name
               FROM features f
               JOIN room_features rf ON rf.feature_id = f.id
               WHERE rf.room_id = ?
               ORDER BY f.name`
	features, err := r.queryStrings(ctx, q, rm.ID)
	if err != nil {
		return nil, err
	}
	return &model.RoomDetails{Room: *rm, Features: features}, nil
}
