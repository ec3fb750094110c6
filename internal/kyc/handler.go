package kyc

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/valuelife/portal/internal/alerts"
	"github.com/valuelife/portal/internal/user"
)

// Handler exposes KYC submission and the admin review queue.
type Handler struct {
	Service   *Service
	Directory *user.Directory
	validate  *validator.Validate
}

func NewHandler(s *Service, d *user.Directory) *Handler {
	return &Handler{Service: s, Directory: d, validate: validator.New()}
}

// SubmitRequest is the body for POST /kyc.
type SubmitRequest struct {
	UserID    string   `json:"user_id" validate:"required"`
	Documents []string `json:"documents" validate:"required,min=1"`
}

// Submit files a KYC request
func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and at least one document are required"})
	}

	created, err := h.Service.Submit(c.Request().Context(), req.UserID, req.Documents)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"kyc_request": created})
}

// ListForUser returns a member's own submissions
func (h *Handler) ListForUser(c echo.Context) error {
	reqs, err := h.Service.ListForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch kyc requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"kyc_requests": reqs})
}

// List returns the admin review queue
func (h *Handler) List(c echo.Context) error {
	reqs, err := h.Service.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch kyc requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"kyc_requests": reqs})
}

// ReviewRequest is the body for the admin decision.
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// Review decides a pending KYC request (admin)
func (h *Handler) Review(c echo.Context) error {
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	reviewed, err := h.Service.Review(c.Request().Context(), c.Param("id"), req.Approve, req.Notes)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	if u, ok, err := h.Directory.FindByID(c.Request().Context(), reviewed.UserID); err == nil && ok {
		if err := alerts.EnqueueKycReviewed(reviewed.ID, u.ID, u.Email, string(reviewed.Status), reviewed.Notes); err != nil {
			c.Logger().Warnf("could not enqueue kyc notification: %v", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"kyc_request": reviewed})
}
