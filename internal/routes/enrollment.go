package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blockauth/devocracy/internal/enrollment"
)

// RegisterEnrollmentRoutes wires the enrollment flow endpoints.
func RegisterEnrollmentRoutes(r fiber.Router, h *enrollment.Handler, resendLimiter fiber.Handler) {
	group := r.Group("/enroll")
	group.Post("/", h.Start)
	group.Get("/:id", h.Status)
	group.Post("/:id/phone", h.SubmitPhone)
	group.Post("/:id/code", h.SubmitCode)
	if resendLimiter != nil {
		group.Post("/:id/resend", resendLimiter, h.Resend)
	} else {
		group.Post("/:id/resend", h.Resend)
	}
	group.Post("/:id/back", h.Back)
	group.Post("/:id/photo", h.CapturePhoto)
	group.Post("/:id/photo/retake", h.RetakePhoto)
	group.Post("/:id/complete", h.Complete)
	group.Delete("/:id", h.Abandon)
}
