package user

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler exposes registration and directory routes.
type Handler struct {
	Directory *Directory
	validate  *validator.Validate
}

func NewHandler(d *Directory) *Handler {
	return &Handler{Directory: d, validate: validator.New()}
}

// RegisterRequest is the body for POST /users.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	SponsorCode string `json:"sponsor_code"`
}

// Register creates a member, optionally under a sponsor's referral code
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a valid email are required"})
	}

	u, err := h.Directory.Register(c.Request().Context(), req.Name, req.Email, req.SponsorCode)
	if err != nil {
		var unknown *ErrUnknownSponsor
		if errors.As(err, &unknown) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": unknown.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not register user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u})
}

// GetProfile returns a member's directory record
func (h *Handler) GetProfile(c echo.Context) error {
	u, ok, err := h.Directory.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch user"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// ListDirects returns the members directly sponsored by a user
func (h *Handler) ListDirects(c echo.Context) error {
	u, ok, err := h.Directory.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch user"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	directs, err := h.Directory.Directs(c.Request().Context(), u.ReferralCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch referrals"})
	}
	return c.JSON(http.StatusOK, echo.Map{"referrals": directs})
}
