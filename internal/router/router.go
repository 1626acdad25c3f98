package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/f4ithlin/ECE464CooperBooker/internal/config"
	"github.com/f4ithlin/ECE464CooperBooker/internal/handler"
	"github.com/f4ithlin/ECE464CooperBooker/internal/middleware"
	"github.com/f4ithlin/ECE464CooperBooker/internal/model"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Cfg     config.Config
	Auth    *handler.AuthHandler
	Booking *handler.BookingHandler
	Browse  *handler.BrowseHandler
	Health  echo.HandlerFunc
	Redis   *redis.Client
}

// Register wires all routes. Catalog reads sit behind the Redis
// response cache; booking mutations sit behind the token bucket and
// require a valid access token.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	e.GET("/healthz", d.Health)

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	authMW := middleware.JWTAuth(d.Cfg.JWTSecret)
	// Mutations require a recognized role claim; tokens minted with a
	// role outside the access_type enum are rejected outright.
	roleMW := middleware.RequireRole(model.AccessTypes...)

	api := e.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/logout-all", d.Auth.LogoutAll, authMW)
	api.POST("/login", d.Auth.Login) // legacy client path

	// Catalog (read-only, cached)
	api.GET("/buildings", d.Browse.Buildings, cacheMW)
	api.GET("/floors", d.Browse.Floors, cacheMW)
	api.GET("/rooms", d.Browse.Rooms, cacheMW)
	api.GET("/room-details", d.Browse.RoomDetails, cacheMW)
	api.GET("/users/:username", d.Browse.GetUser, authMW)

	// Availability and calendar
	api.GET("/availability", d.Booking.CheckAvailability)
	api.GET("/available-rooms-for-event", d.Booking.AvailableRooms)
	api.GET("/events", d.Booking.ListEvents)
	api.GET("/events/upcoming/:username", d.Booking.UpcomingEvents)
	api.GET("/events/:eventId", d.Booking.GetEvent)

	// Booking mutations (authenticated, role-checked, rate-limited)
	api.POST("/book-room", d.Booking.BookRoom, authMW, roleMW, rateMW)
	api.POST("/events/update/:eventId", d.Booking.UpdateEvent, authMW, roleMW, rateMW)
	api.DELETE("/events/delete/:eventId", d.Booking.DeleteEvent, authMW, roleMW, rateMW)
}
