package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invopost/invoice-dispatch/internal/storage"
)

const readinessTimeout = 2 * time.Second

func RegisterHealthRoutes(app fiber.Router, store storage.Store) {
	app.Get("/livez", LivezHandler())
	app.Get("/readyz", ReadyzHandler(store))
}

func LivezHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	}
}

func ReadyzHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), readinessTimeout)
		defer cancel()

		storageStatus := "ok"
		status := "ready"
		statusCode := fiber.StatusOK
		if err := store.Ping(ctx); err != nil {
			storageStatus = "down"
			status = "not_ready"
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"checks": fiber.Map{
				"storage": storageStatus,
			},
		})
	}
}
