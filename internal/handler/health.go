package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health reports liveness and database reachability. Deployment probes
// hit this before routing traffic.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "db": "ok"}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["db"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, status)
	}
}
