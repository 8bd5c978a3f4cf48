package session

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes session endpoints.
type Handler struct {
	store *Store
}

// NewHandler constructs a session HTTP handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type sessionResponse struct {
	ID             string `json:"id"`
	PhoneNumber    string `json:"phone_number"`
	IdentityNumber string `json:"identity_number"`
	DisplayName    string `json:"display_name,omitempty"`
	ProfileImage   string `json:"profile_image,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type updateProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	ProfileImage *string `json:"profile_image"`
}

func toResponse(s Session) sessionResponse {
	return sessionResponse{
		ID:             s.ID,
		PhoneNumber:    s.PhoneNumber,
		IdentityNumber: MaskIdentityNumber(s.IdentityNumber),
		DisplayName:    s.DisplayName,
		ProfileImage:   s.ProfileImage,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:      s.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// Current returns the active session with the identity number masked.
func (h *Handler) Current(c *fiber.Ctx) error {
	current, ok := h.store.Current()
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}
	return c.Status(http.StatusOK).JSON(toResponse(current))
}

// UpdateProfile merges the supplied fields into the active session.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	if !h.store.IsAuthenticated() {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	merged, err := h.store.UpdateProfile(c.UserContext(), ProfileUpdate{
		DisplayName:  req.DisplayName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, "profile update failed")
	}
	return c.Status(http.StatusOK).JSON(toResponse(merged))
}

// Logout destroys the active session. Idempotent.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.store.Logout(c.UserContext()); err != nil {
		return fiber.NewError(http.StatusBadGateway, "logout failed")
	}
	return c.SendStatus(http.StatusNoContent)
}
