package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/repository"
)

// BrowseHandler serves the read-only catalog: buildings, floors, rooms
// and user profiles. These endpoints sit behind the Redis response
// cache in the router.
type BrowseHandler struct {
	rooms *repository.RoomRepo
	users *repository.UserRepo
}

func NewBrowseHandler(rooms *repository.RoomRepo, users *repository.UserRepo) *BrowseHandler {
	return &BrowseHandler{rooms: rooms, users: users}
}

// Buildings handles GET /api/buildings.
func (h *BrowseHandler) Buildings(c echo.Context) error {
	buildings, err := h.rooms.ListBuildings(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"buildings": buildings})
}

// Floors handles GET /api/floors?building=...
func (h *BrowseHandler) Floors(c echo.Context) error {
	building := c.QueryParam("building")
	if building == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building is required"})
	}
	floors, err := h.rooms.ListFloors(c.Request().Context(), building)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"floors": floors})
}

// Rooms handles GET /api/rooms with optional building, floor and
// capacity filters.
func (h *BrowseHandler) Rooms(c echo.Context) error {
	minCap, err := minCapacityParam(c)
	if err != nil {
		return errJSON(c, err)
	}
	rooms, err := h.rooms.List(c.Request().Context(), c.QueryParam("building"), c.QueryParam("floor"), minCap)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// RoomDetails handles GET /api/room-details?room_name=... returning
// the room row plus its feature names.
func (h *BrowseHandler) RoomDetails(c echo.Context) error {
	room := c.QueryParam("room_name")
	if room == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_name is required"})
	}
	details, err := h.rooms.GetDetails(c.Request().Context(), room)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// GetUser handles GET /api/users/:username. The password hash never
// leaves the server.
func (h *BrowseHandler) GetUser(c echo.Context) error {
	u, err := h.users.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, booking.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"uid":         u.ID,
			"user_name":   u.UserName,
			"access_type": u.AccessType,
			"email":       u.Email,
		},
	})
}
