package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health returns a liveness/readiness handler. Load balancers poll it;
// "degraded" means the process is up but the database is not answering,
// which is worth a different alert than a dead process.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{
					"status": "degraded",
					"db":     err.Error(),
				})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}
