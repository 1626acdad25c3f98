package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/queue"
	"github.com/f4ithlin/ECE464CooperBooker/internal/repository"
)

// BookingHandler exposes the reservation lifecycle over HTTP. All
// domain decisions live in booking.Service; the handler binds JSON,
// maps sentinel errors to status codes and publishes queue
// notifications after successful mutations.
type BookingHandler struct {
	Svc    *booking.Service
	Events *repository.EventRepo
}

func NewBookingHandler(svc *booking.Service, events *repository.EventRepo) *BookingHandler {
	return &BookingHandler{Svc: svc, Events: events}
}

// statusFor maps the booking package's sentinel errors onto HTTP
// status codes. Unknown errors become 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrRoomNotFound),
		errors.Is(err, booking.ErrEventNotFound),
		errors.Is(err, booking.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrSlotConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errJSON(c echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Errorf("booking: %v", err)
		msg = "internal server error"
	}
	return c.JSON(code, echo.Map{"error": msg})
}

type bookRoomRequest struct {
	RoomName    string  `json:"roomName"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	EventName   string  `json:"eventName"`
	UserID      uint64  `json:"uid"`
	ProfileName *string `json:"profileName,omitempty"`
}

// BookRoom handles POST /api/book-room, answering 200 with the created
// event. A taken slot yields 409 and no write.
func (h *BookingHandler) BookRoom(c echo.Context) error {
	var req bookRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ev, err := h.Svc.Create(c.Request().Context(), booking.CreateRequest{
		RoomName:    req.RoomName,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		EventName:   req.EventName,
		UserID:      req.UserID,
		ProfileName: req.ProfileName,
	})
	if err != nil {
		return errJSON(c, err)
	}
	queue.PublishAsync(queue.NewBookingEvent(queue.ActionCreated, ev))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Room booked successfully",
		"event":   ev,
	})
}

type updateEventRequest struct {
	EventName string `json:"event_name"`
	RoomName  string `json:"room_name"`
	Date      string `json:"date"`
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
}

// UpdateEvent handles POST /api/events/update/:eventId. The event keeps
// its id and owner; title, room and window are replaced wholesale. A
// conflicting target slot yields 409 and the stored event is untouched.
func (h *BookingHandler) UpdateEvent(c echo.Context) error {
	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ev, err := h.Svc.Update(c.Request().Context(), booking.UpdateRequest{
		EventID:   c.Param("eventId"),
		EventName: req.EventName,
		RoomName:  req.RoomName,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return errJSON(c, err)
	}
	queue.PublishAsync(queue.NewBookingEvent(queue.ActionUpdated, ev))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Event updated successfully",
		"event":   ev,
	})
}

// DeleteEvent handles DELETE /api/events/delete/:eventId. Deleting an
// unknown id returns 404; a second delete of the same id therefore
// also returns 404.
func (h *BookingHandler) DeleteEvent(c echo.Context) error {
	ev, err := h.Svc.Delete(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return errJSON(c, err)
	}
	queue.PublishAsync(queue.NewBookingEvent(queue.ActionCancelled, ev))
	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted successfully"})
}

// CheckAvailability handles GET /api/availability. Query params: room,
// date, startTime, endTime, and an optional excludeEventId so a client
// editing an event can ignore its own slot.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	ok, err := h.Svc.IsAvailable(
		c.Request().Context(),
		c.QueryParam("room"),
		c.QueryParam("date"),
		c.QueryParam("startTime"),
		c.QueryParam("endTime"),
		c.QueryParam("excludeEventId"),
	)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": ok})
}

// minCapacityParam parses the optional capacity query parameter.
func minCapacityParam(c echo.Context) (uint32, error) {
	s := c.QueryParam("capacity")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: capacity must be a non-negative integer", booking.ErrInvalidSlot)
	}
	return uint32(n), nil
}

// AvailableRooms handles GET /api/available-rooms-for-event. Returns
// every room free for the requested slot, optionally narrowed by
// building and minimum capacity, ordered by room name.
func (h *BookingHandler) AvailableRooms(c echo.Context) error {
	minCap, err := minCapacityParam(c)
	if err != nil {
		return errJSON(c, err)
	}
	rooms, err := h.Svc.AvailableRooms(
		c.Request().Context(),
		c.QueryParam("date"),
		c.QueryParam("startTime"),
		c.QueryParam("endTime"),
		c.QueryParam("building"),
		minCap,
	)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// ListEvents handles GET /api/events, the calendar feed. Optional query
// filters: startDate, endDate, building, floor, room_name, capacity.
func (h *BookingHandler) ListEvents(c echo.Context) error {
	minCap, err := minCapacityParam(c)
	if err != nil {
		return errJSON(c, err)
	}
	events, err := h.Events.List(c.Request().Context(), repository.EventFilter{
		StartDate:   c.QueryParam("startDate"),
		EndDate:     c.QueryParam("endDate"),
		Building:    c.QueryParam("building"),
		Floor:       c.QueryParam("floor"),
		RoomName:    c.QueryParam("room_name"),
		MinCapacity: minCap,
	})
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// UpcomingEvents handles GET /api/events/upcoming/:username, a user's
// bookings from today onward ordered by date then start time.
func (h *BookingHandler) UpcomingEvents(c echo.Context) error {
	today := time.Now().UTC().Format("2006-01-02")
	events, err := h.Events.ListUpcomingForUser(c.Request().Context(), c.Param("username"), today)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// GetEvent handles GET /api/events/:eventId.
func (h *BookingHandler) GetEvent(c echo.Context) error {
	ev, err := h.Svc.Get(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}
