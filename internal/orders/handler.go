package orders

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler exposes order creation, the payment gateway callback and order
// listings.
type Handler struct {
	Service  *Service
	validate *validator.Validate
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s, validate: validator.New()}
}

// CreateOrderRequest is the body for POST /orders.
type CreateOrderRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
}

// Create opens an order at the current catalog price
func (h *Handler) Create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and product_id are required"})
	}

	o, err := h.Service.Create(c.Request().Context(), req.UserID, req.ProductID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"order": o})
}

// PaymentCallbackRequest is the body the payout/payment gateway posts
// back after attempting to collect payment.
type PaymentCallbackRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=paid failed"`
}

// RecordPayment settles an order from the gateway callback
func (h *Handler) RecordPayment(c echo.Context) error {
	var req PaymentCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_id and a status of paid or failed are required"})
	}

	o, err := h.Service.RecordPayment(c.Request().Context(), c.Param("id"), req.PaymentID, Status(req.Status))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}

// Refund reverses a paid order (admin)
func (h *Handler) Refund(c echo.Context) error {
	o, err := h.Service.Refund(c.Request().Context(), c.Param("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}

// ListForUser returns a member's order history
func (h *Handler) ListForUser(c echo.Context) error {
	os, err := h.Service.ListForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": os})
}
