package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger lo implementan el pool de PostgreSQL y el store SQLite.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health responde 200 si el almacén contesta, 503 si no.
func Health(service string, db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
