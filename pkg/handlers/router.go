package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"calendareventservice/pkg/middleware"
)

var startedAt = time.Now()

// Register wires the full HTTP surface onto the app.
func Register(app *fiber.App, auth *AuthHandler, events *EventHandler, tokens middleware.Verifier) {
	app.Get("/auth/google", auth.GoogleAuth)
	app.Get("/auth/google/callback", auth.GoogleCallback)

	requireAuth := middleware.RequireAuth(tokens)
	app.Post("/events", requireAuth, events.Create)
	app.Get("/events", requireAuth, events.List)
	app.Put("/events/:id", requireAuth, events.Update)
	app.Delete("/events/:id", requireAuth, events.Delete)

	app.Get("/health", Health)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})
}

// Health reports process uptime.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"uptime":  time.Since(startedAt).Seconds(),
		"message": "Ok",
		"date":    time.Now(),
	})
}
