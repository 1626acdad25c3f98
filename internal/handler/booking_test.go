package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
)

// fakeStore backs the booking service with maps so handlers can be
// exercised without a database.
type fakeStore struct {
	rooms  map[string]*model.Room // keyed by room name
	users  map[uint64]*model.User
	events map[string]*model.Event // keyed by eid
}

func newFakeStore() *fakeStore {
	cap20 := uint32(20)
	cap8 := uint32(8)
	return &fakeStore{
		rooms: map[string]*model.Room{
			"FDN-201":  {ID: 1, RoomName: "FDN-201", Building: "Foundation", Floor: "2", MaxCapacity: &cap20},
			"41CS-100": {ID: 2, RoomName: "41CS-100", Building: "41CS", Floor: "1", MaxCapacity: &cap8},
		},
		users: map[uint64]*model.User{
			7: {ID: 7, UserName: "mkim", AccessType: "student", Email: "mkim@cooper.edu"},
		},
		events: map[string]*model.Event{},
	}
}

func (f *fakeStore) GetByName(_ context.Context, name string) (*model.Room, error) {
	if r, ok := f.rooms[name]; ok {
		return r, nil
	}
	return nil, booking.ErrRoomNotFound
}

func (f *fakeStore) ListAvailable(_ context.Context, q booking.AvailableRoomsQuery) ([]model.Room, error) {
	out := []model.Room{}
	for _, r := range f.rooms {
		if q.Building != "" && r.Building != q.Building {
			continue
		}
		if q.MinCapacity > 0 && (r.MaxCapacity == nil || *r.MaxCapacity < q.MinCapacity) {
			continue
		}
		free := true
		for _, ev := range f.events {
			if ev.RoomID == r.ID && ev.Date == q.Window.Date &&
				booking.Overlaps(ev.StartTime, ev.EndTime, q.Window.Start, q.Window.End) {
				free = false
				break
			}
		}
		if free {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].RoomName) < strings.ToLower(out[j].RoomName)
	})
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, eid string) (*model.Event, error) {
	if ev, ok := f.events[eid]; ok {
		cp := *ev
		return &cp, nil
	}
	return nil, booking.ErrEventNotFound
}

func (f *fakeStore) FindOverlapping(_ context.Context, roomID uint64, date, start, end, excludeEID string) ([]model.Event, error) {
	out := []model.Event{}
	for _, ev := range f.events {
		if ev.EID == excludeEID || ev.RoomID != roomID || ev.Date != date {
			continue
		}
		if booking.Overlaps(ev.StartTime, ev.EndTime, start, end) {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateIfAvailable(ctx context.Context, ev *model.Event) error {
	hits, _ := f.FindOverlapping(ctx, ev.RoomID, ev.Date, ev.StartTime, ev.EndTime, "")
	if len(hits) > 0 {
		return booking.ErrSlotConflict
	}
	cp := *ev
	f.events[ev.EID] = &cp
	return nil
}

func (f *fakeStore) UpdateIfAvailable(ctx context.Context, ev *model.Event) error {
	if _, ok := f.events[ev.EID]; !ok {
		return booking.ErrEventNotFound
	}
	hits, _ := f.FindOverlapping(ctx, ev.RoomID, ev.Date, ev.StartTime, ev.EndTime, ev.EID)
	if len(hits) > 0 {
		return booking.ErrSlotConflict
	}
	cp := *ev
	f.events[ev.EID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, eid string) error {
	if _, ok := f.events[eid]; !ok {
		return booking.ErrEventNotFound
	}
	delete(f.events, eid)
	return nil
}

type userAdapter struct{ f *fakeStore }

func (a userAdapter) GetByID(_ context.Context, id uint64) (*model.User, error) {
	if u, ok := a.f.users[id]; ok {
		return u, nil
	}
	return nil, booking.ErrUserNotFound
}

func newTestHandler() (*BookingHandler, *fakeStore) {
	fs := newFakeStore()
	svc := booking.NewService(fs, fs, userAdapter{fs})
	return NewBookingHandler(svc, nil), fs
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = h(c)
	return rec
}

func bookBody(room, date, start, end, name string, uid uint64) string {
	return fmt.Sprintf(`{"roomName":%q,"date":%q,"startTime":%q,"endTime":%q,"eventName":%q,"uid":%d}`,
		room, date, start, end, name, uid)
}

func TestBookRoom(t *testing.T) {
	h, fs := newTestHandler()
	e := echo.New()

	rec := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "Circuits Review", 7), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string      `json:"message"`
		Event   model.Event `json:"event"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.Event.EID == "" {
		t.Fatal("response event has empty eid")
	}
	if resp.Event.StartTime != "09:00:00" || resp.Event.EndTime != "10:00:00" {
		t.Fatalf("times not normalized: %s-%s", resp.Event.StartTime, resp.Event.EndTime)
	}
	if len(fs.events) != 1 {
		t.Fatalf("stored events = %d, want 1", len(fs.events))
	}
}

func TestBookRoomConflict(t *testing.T) {
	h, fs := newTestHandler()
	e := echo.New()

	first := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "First", 7), nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first booking status = %d", first.Code)
	}

	second := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "09:30", "10:30", "Second", 7), nil)
	if second.Code != http.StatusConflict {
		t.Fatalf("overlapping booking status = %d, want 409", second.Code)
	}
	if len(fs.events) != 1 {
		t.Fatalf("conflict mutated store: %d events", len(fs.events))
	}

	// Touching windows share a boundary instant and both fit.
	touching := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "10:00", "11:00", "Adjacent", 7), nil)
	if touching.Code != http.StatusOK {
		t.Fatalf("adjacent booking status = %d, want 200", touching.Code)
	}
}

func TestBookRoomValidation(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"inverted window", bookBody("FDN-201", "2026-03-02", "11:00", "10:00", "X", 7), http.StatusBadRequest},
		{"empty window", bookBody("FDN-201", "2026-03-02", "10:00", "10:00", "X", 7), http.StatusBadRequest},
		{"bad date", bookBody("FDN-201", "03/02/2026", "09:00", "10:00", "X", 7), http.StatusBadRequest},
		{"missing title", bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "  ", 7), http.StatusBadRequest},
		{"unknown room", bookBody("NOPE-1", "2026-03-02", "09:00", "10:00", "X", 7), http.StatusNotFound},
		{"unknown user", bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "X", 99), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room", tc.body, nil)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	h, fs := newTestHandler()
	e := echo.New()

	rec := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "Original", 7), nil)
	var created struct {
		Event model.Event `json:"event"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	eid := created.Event.EID

	// Shifting within the event's own slot must not self-conflict.
	upd := doJSON(e, h.UpdateEvent, http.MethodPost, "/",
		`{"event_name":"Renamed","room_name":"FDN-201","date":"2026-03-02","starttime":"09:30","endtime":"10:30"}`,
		map[string]string{"eventId": eid})
	if upd.Code != http.StatusOK {
		t.Fatalf("update status = %d (body %s)", upd.Code, upd.Body.String())
	}
	got := fs.events[eid]
	if got.EventName != "Renamed" || got.StartTime != "09:30:00" || got.EndTime != "10:30:00" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.UserID != 7 {
		t.Fatalf("update changed owner: uid = %d", got.UserID)
	}

	missing := doJSON(e, h.UpdateEvent, http.MethodPost, "/",
		`{"event_name":"X","room_name":"FDN-201","date":"2026-03-02","starttime":"12:00","endtime":"13:00"}`,
		map[string]string{"eventId": "no-such-event"})
	if missing.Code != http.StatusNotFound {
		t.Fatalf("unknown event status = %d, want 404", missing.Code)
	}
}

func TestUpdateEventConflict(t *testing.T) {
	h, fs := newTestHandler()
	e := echo.New()

	a := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "A", 7), nil)
	doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "11:00", "12:00", "B", 7), nil)
	var created struct {
		Event model.Event `json:"event"`
	}
	_ = json.Unmarshal(a.Body.Bytes(), &created)
	eid := created.Event.EID

	rec := doJSON(e, h.UpdateEvent, http.MethodPost, "/",
		`{"event_name":"A","room_name":"FDN-201","date":"2026-03-02","starttime":"11:30","endtime":"12:30"}`,
		map[string]string{"eventId": eid})
	if rec.Code != http.StatusConflict {
		t.Fatalf("conflicting update status = %d, want 409", rec.Code)
	}
	if got := fs.events[eid]; got.StartTime != "09:00:00" {
		t.Fatalf("failed update mutated event: %+v", got)
	}
}

func TestDeleteEvent(t *testing.T) {
	h, fs := newTestHandler()
	e := echo.New()

	rec := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "Doomed", 7), nil)
	var created struct {
		Event model.Event `json:"event"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	eid := created.Event.EID

	del := doJSON(e, h.DeleteEvent, http.MethodDelete, "/", "", map[string]string{"eventId": eid})
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d", del.Code)
	}
	if len(fs.events) != 0 {
		t.Fatalf("event not removed, %d left", len(fs.events))
	}

	again := doJSON(e, h.DeleteEvent, http.MethodDelete, "/", "", map[string]string{"eventId": eid})
	if again.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", again.Code)
	}

	// Slot is free again after deletion.
	rebook := doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "09:00", "10:00", "Rebooked", 7), nil)
	if rebook.Code != http.StatusOK {
		t.Fatalf("rebooking freed slot status = %d", rebook.Code)
	}
}

func TestCheckAvailability(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "10:00", "10:30", "Standup", 7), nil)

	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{"free before", "room=FDN-201&date=2026-03-02&startTime=09:00&endTime=10:00", true},
		{"inside booked", "room=FDN-201&date=2026-03-02&startTime=10:15&endTime=10:45", false},
		{"spanning booked", "room=FDN-201&date=2026-03-02&startTime=09:30&endTime=10:30", false},
		{"other room", "room=41CS-100&date=2026-03-02&startTime=10:00&endTime=10:30", true},
		{"other date", "room=FDN-201&date=2026-03-03&startTime=10:00&endTime=10:30", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, h.CheckAvailability, http.MethodGet, "/api/availability?"+tc.query, "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
			}
			var resp struct {
				Available bool `json:"available"`
			}
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Available != tc.want {
				t.Fatalf("available = %v, want %v", resp.Available, tc.want)
			}
		})
	}

	bad := doJSON(e, h.CheckAvailability, http.MethodGet,
		"/api/availability?room=FDN-201&date=2026-03-02&startTime=11:00&endTime=10:00", "", nil)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("inverted window status = %d, want 400", bad.Code)
	}
	missing := doJSON(e, h.CheckAvailability, http.MethodGet,
		"/api/availability?room=GHOST&date=2026-03-02&startTime=10:00&endTime=11:00", "", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("unknown room status = %d, want 404", missing.Code)
	}
}

func TestAvailableRooms(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	// Occupy FDN-201 for the slot; 41CS-100 stays free.
	doJSON(e, h.BookRoom, http.MethodPost, "/api/book-room",
		bookBody("FDN-201", "2026-03-02", "10:00", "11:00", "Lecture", 7), nil)

	rec := doJSON(e, h.AvailableRooms, http.MethodGet,
		"/api/available-rooms-for-event?date=2026-03-02&startTime=10:00&endTime=11:00", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Rooms []model.Room `json:"rooms"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Rooms) != 1 || resp.Rooms[0].RoomName != "41CS-100" {
		t.Fatalf("rooms = %+v, want only 41CS-100", resp.Rooms)
	}

	// An adjacent slot frees both rooms.
	both := doJSON(e, h.AvailableRooms, http.MethodGet,
		"/api/available-rooms-for-event?date=2026-03-02&startTime=11:00&endTime=12:00", "", nil)
	_ = json.Unmarshal(both.Body.Bytes(), &resp)
	if len(resp.Rooms) != 2 {
		t.Fatalf("adjacent slot rooms = %d, want 2", len(resp.Rooms))
	}
	if resp.Rooms[0].RoomName != "41CS-100" || resp.Rooms[1].RoomName != "FDN-201" {
		t.Fatalf("rooms not ordered by name: %+v", resp.Rooms)
	}

	// Capacity filter drops the small room.
	big := doJSON(e, h.AvailableRooms, http.MethodGet,
		"/api/available-rooms-for-event?date=2026-03-02&startTime=11:00&endTime=12:00&capacity=10", "", nil)
	_ = json.Unmarshal(big.Body.Bytes(), &resp)
	if len(resp.Rooms) != 1 || resp.Rooms[0].RoomName != "FDN-201" {
		t.Fatalf("capacity-filtered rooms = %+v, want only FDN-201", resp.Rooms)
	}

	badCap := doJSON(e, h.AvailableRooms, http.MethodGet,
		"/api/available-rooms-for-event?date=2026-03-02&startTime=11:00&endTime=12:00&capacity=lots", "", nil)
	if badCap.Code != http.StatusBadRequest {
		t.Fatalf("bad capacity status = %d, want 400", badCap.Code)
	}
}
