package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
)

// EventRepo persists reservations. It implements booking.EventStore:
// the write paths run the conflict check and the mutation inside one
// transaction with locking reads so that two concurrent requests for
// overlapping slots cannot both commit (InnoDB next-key locks on the
// (rid, date, starttime) index cover the checked range).
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle for callers needing cross-repo
// transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

// eventColumns formats DATE/TIME columns as the canonical strings the
// booking package compares lexicographically.
const eventColumns = `e.eid, e.event_name,
        DATE_FORMAT(e.date, '%Y-%m-%d'),
        TIME_FORMAT(e.starttime, '%H:%i:%S'),
        TIME_FORMAT(e.endtime, '%H:%i:%S'),
        e.profile_name, e.rid, e.uid`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var (
		ev      model.Event
		profile sql.NullString
	)
	if err := row.Scan(&ev.EID, &ev.EventName, &ev.Date, &ev.StartTime, &ev.EndTime, &profile, &ev.RoomID, &ev.UserID); err != nil {
		return nil, err
	}
	if profile.Valid {
		p := profile.String
		ev.ProfileName = &p
	}
	return &ev, nil
}

// GetByID retrieves an event, returning booking.ErrEventNotFound when
// no row matches.
func (r *EventRepo) GetByID(ctx context.Context, eid string) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events e WHERE e.eid = ?`
	ev, err := scanEvent(r.db.QueryRowContext(ctx, q, eid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrEventNotFound
		}
		return nil, err
	}
	return ev, nil
}

// FindOverlapping returns events for the room and date overlapping the
// half-open [start, end) window, skipping excludeEID when non-empty.
// Read-only; the write paths repeat this check under FOR UPDATE.
func (r *EventRepo) FindOverlapping(ctx context.Context, roomID uint64, date, start, end, excludeEID string) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + `
          FROM events e
          WHERE e.rid = ? AND e.date = ?
            AND e.starttime < ? AND e.endtime > ?`
	args := []any{roomID, date, end, start}
	if excludeEID != "" {
		q += ` AND e.eid <> ?`
		args = append(args, excludeEID)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lockConflicts counts overlapping events for the slot inside tx,
// taking row and gap locks on the (rid, date, starttime) index so a
// concurrent insert into the same window blocks until commit.
func lockConflicts(ctx context.Context, tx *sql.Tx, ev *model.Event, excludeEID string) (int, error) {
	q := `SELECT COUNT(*)
          FROM events
          WHERE rid = ? AND date = ?
            AND starttime < ? AND endtime > ?`
	args := []any{ev.RoomID, ev.Date, ev.EndTime, ev.StartTime}
	if excludeEID != "" {
		q += ` AND eid <> ?`
		args = append(args, excludeEID)
	}
	q += ` FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateIfAvailable atomically re-checks the slot and inserts the
// event. It returns booking.ErrSlotConflict without mutating state
// when the slot is taken.
func (r *EventRepo) CreateIfAvailable(ctx context.Context, ev *model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	n, err := lockConflicts(ctx, tx, ev, "")
	if err != nil {
		return err
	}
	if n > 0 {
		return booking.ErrSlotConflict
	}
	const ins = `INSERT INTO events (eid, event_name, date, starttime, endtime, profile_name, rid, uid)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var profile sql.NullString
	if ev.ProfileName != nil {
		profile = sql.NullString{String: *ev.ProfileName, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, ins, ev.EID, ev.EventName, ev.Date, ev.StartTime, ev.EndTime, profile, ev.RoomID, ev.UserID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateIfAvailable atomically re-checks the target slot (excluding
// the event itself) and overwrites title, room, date and time window.
// Identifier and owning user are never touched. Returns
// booking.ErrEventNotFound when the event vanished and
// booking.ErrSlotConflict when the new slot is taken.
func (r *EventRepo) UpdateIfAvailable(ctx context.Context, ev *model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE eid = ? FOR UPDATE`, ev.EID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrEventNotFound
		}
		return err
	}
	n, err := lockConflicts(ctx, tx, ev, ev.EID)
	if err != nil {
		return err
	}
	if n > 0 {
		return booking.ErrSlotConflict
	}
	const upd = `UPDATE events
                 SET event_name = ?, date = ?, starttime = ?, endtime = ?, rid = ?
                 WHERE eid = ?`
	if _, err := tx.ExecContext(ctx, upd, ev.EventName, ev.Date, ev.StartTime, ev.EndTime, ev.RoomID, ev.EID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes an event unconditionally. Returns
// booking.ErrEventNotFound when no row matched.
func (r *EventRepo) Delete(ctx context.Context, eid string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE eid = ?`, eid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrEventNotFound
	}
	return nil
}

// ListUpcomingForUser returns a user's events dated today or later,
// ordered by date then start time. Backs the personal dashboard feed.
func (r *EventRepo) ListUpcomingForUser(ctx context.Context, userName, fromDate string) ([]model.EventDetails, error) {
	q := `SELECT ` + eventColumns + `,
                 r.room_name, r.building, r.floor, r.max_capacity,
                 u.user_name
          FROM events e
          JOIN rooms r ON r.id = e.rid
          JOIN users u ON u.id = e.uid
          WHERE u.user_name = ? AND e.date >= ?
          ORDER BY e.date ASC, e.starttime ASC`
	return r.queryDetails(ctx, q, userName, fromDate)
}

// EventFilter narrows the calendar listing. All fields are optional;
// zero values mean "no filter".
type EventFilter struct {
	StartDate   string
	EndDate     string
	Building    string
	Floor       string
	RoomName    string
	MinCapacity uint32
}

// List returns events joined with their room and owner, filtered per f
// and ordered by date then start time. Used by the calendar view.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.EventDetails, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.StartDate != "" {
		where = append(where, "e.date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		where = append(where, "e.date <= ?")
		args = append(args, f.EndDate)
	}
	if f.Building != "" {
		where = append(where, "r.building = ?")
		args = append(args, f.Building)
	}
	if f.Floor != "" {
		where = append(where, "r.floor = ?")
		args = append(args, f.Floor)
	}
	if f.RoomName != "" {
		where = append(where, "r.room_name = ?")
		args = append(args, f.RoomName)
	}
	if f.MinCapacity > 0 {
		where = append(where, "r.max_capacity >= ?")
		args = append(args, f.MinCapacity)
	}
	q := `SELECT ` + eventColumns + `,
                 r.room_name, r.building, r.floor, r.max_capacity,
                 u.user_name
          FROM events e
          JOIN rooms r ON r.id = e.rid
          JOIN users u ON u.id = e.uid
          WHERE ` + strings.Join(where, " AND ") + `
          ORDER BY e.date ASC, e.starttime ASC`
	return r.queryDetails(ctx, q, args...)
}

func (r *EventRepo) queryDetails(ctx context.Context, q string, args ...any) ([]model.EventDetails, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.EventDetails, 0)
	for rows.Next() {
		var (
			d        model.EventDetails
			profile  sql.NullString
			capacity sql.NullInt64
		)
		if err := rows.Scan(
			&d.EID, &d.EventName, &d.Date, &d.StartTime, &d.EndTime, &profile, &d.RoomID, &d.UserID,
			&d.RoomName, &d.Building, &d.Floor, &capacity,
			&d.UserName,
		); err != nil {
			return nil, err
		}
		if profile.Valid {
			p := profile.String
			d.ProfileName = &p
		}
		if capacity.Valid {
			c := uint32(capacity.Int64)
			d.MaxCapacity = &c
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
