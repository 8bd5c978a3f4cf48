package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blockauth/devocracy/internal/session"
)

// RegisterSessionRoutes wires the session endpoints.
func RegisterSessionRoutes(r fiber.Router, h *session.Handler) {
	group := r.Group("/session")
	group.Get("/", h.Current)
	group.Patch("/profile", h.UpdateProfile)
	group.Post("/logout", h.Logout)
}
