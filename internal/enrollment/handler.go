package enrollment

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/blockauth/devocracy/internal/capture"
	"github.com/blockauth/devocracy/internal/session"
)

// DeviceFactory produces a fresh capture device per photo attempt, so each
// acquisition is scoped to a single capture.
type DeviceFactory func() capture.Device

// Handler exposes the enrollment flow over HTTP.
type Handler struct {
	manager *Manager
	devices DeviceFactory
}

// NewHandler constructs an enrollment HTTP handler.
func NewHandler(manager *Manager, devices DeviceFactory) *Handler {
	return &Handler{manager: manager, devices: devices}
}

type startRequest struct {
	Mode           string `json:"mode"`
	DisplayName    string `json:"display_name"`
	IdentityNumber string `json:"identity_number"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type completeRequest struct {
	SkipPhoto bool `json:"skip_photo"`
}

type statusResponse struct {
	FlowID          string `json:"flow_id"`
	Mode            string `json:"mode"`
	Phase           string `json:"phase"`
	Phone           string `json:"phone,omitempty"`
	CooldownSeconds int    `json:"cooldown_seconds"`
	HasPhoto        bool   `json:"has_photo"`
}

type completedResponse struct {
	SessionID      string `json:"session_id"`
	PhoneNumber    string `json:"phone_number"`
	IdentityNumber string `json:"identity_number"`
	DisplayName    string `json:"display_name,omitempty"`
	HasPhoto       bool   `json:"has_photo"`
}

func toStatusResponse(st Status) statusResponse {
	return statusResponse{
		FlowID:          st.ID,
		Mode:            string(st.Mode),
		Phase:           string(st.Phase),
		Phone:           st.PhoneNumber,
		CooldownSeconds: st.CooldownSeconds,
		HasPhoto:        st.HasPhoto,
	}
}

// Start begins a new flow.
func (h *Handler) Start(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	ctrl, err := h.manager.Start(StartRequest{
		Mode:           Mode(req.Mode),
		DisplayName:    req.DisplayName,
		IdentityNumber: req.IdentityNumber,
	})
	if err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusCreated).JSON(toStatusResponse(ctrl.Status()))
}

// Status reports the flow's phase and cooldown.
func (h *Handler) Status(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusOK).JSON(toStatusResponse(ctrl.Status()))
}

// SubmitPhone submits the phone number and triggers code issuance.
func (h *Handler) SubmitPhone(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}

	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := ctrl.SubmitPhone(c.UserContext(), req.Phone); err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusOK).JSON(toStatusResponse(ctrl.Status()))
}

// SubmitCode submits the verification code.
func (h *Handler) SubmitCode(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}

	var req codeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := ctrl.SubmitCode(req.Code); err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusOK).JSON(toStatusResponse(ctrl.Status()))
}

// Resend reissues the verification code once the cooldown allows it.
func (h *Handler) Resend(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}

	if err := ctrl.Resend(c.UserContext()); err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusOK).JSON(toStatusResponse(ctrl.Status()))
}

// Back steps the flow one phase backwards.
func (h *Handler) Back(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}

	if err := ctrl.Back(); err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusOK).JSON(toStatusResponse(ctrl.Status()))
}

// CapturePhoto takes a photo with a freshly acquired device.
func (h *Handler) CapturePhoto(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}

	if err := ctrl.CapturePhoto(c.UserContext(), h.devices()); err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusOK).JSON(toStatusResponse(ctrl.Status()))
}

// RetakePhoto discards the captured photo.
func (h *Handler) RetakePhoto(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}

	if err := ctrl.RetakePhoto(); err != nil {
		return flowError(err)
	}
	return c.Status(http.StatusOK).JSON(toStatusResponse(ctrl.Status()))
}

// Complete finishes the flow and materializes the session.
func (h *Handler) Complete(c *fiber.Ctx) error {
	ctrl, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return flowError(err)
	}

	var req completeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}

	committed, err := ctrl.Complete(c.UserContext(), req.SkipPhoto)
	if err != nil {
		return flowError(err)
	}
	h.manager.Finish(ctrl.ID())

	return c.Status(http.StatusOK).JSON(completedResponse{
		SessionID:      committed.ID,
		PhoneNumber:    committed.PhoneNumber,
		IdentityNumber: session.MaskIdentityNumber(committed.IdentityNumber),
		DisplayName:    committed.DisplayName,
		HasPhoto:       committed.ProfileImage != "",
	})
}

// Abandon tears the flow down.
func (h *Handler) Abandon(c *fiber.Ctx) error {
	if err := h.manager.Abandon(c.Params("id")); err != nil {
		return flowError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// flowError maps flow and capture errors onto HTTP statuses. Validation
// failures stay 4xx so the client shows them inline; device unavailability
// is distinguishable from a decline; commit failures surface as a generic
// upstream failure.
func flowError(err error) error {
	switch {
	case errors.Is(err, ErrFlowNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrInvalidIdentityNumber),
		errors.Is(err, ErrDisplayNameRequired),
		errors.Is(err, ErrNoPhoto):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCodeMismatch):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrCooldownActive):
		return fiber.NewError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrInvalidPhase), errors.Is(err, ErrFlowCompleted):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, capture.ErrUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
}
