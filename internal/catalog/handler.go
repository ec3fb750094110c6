package catalog

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Handler exposes the catalog routes: member-facing listing plus admin
// CRUD.
type Handler struct {
	Service  *Service
	validate *validator.Validate
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s, validate: validator.New()}
}

// ListActive returns products visible to members
func (h *Handler) ListActive(c echo.Context) error {
	products, err := h.Service.Active(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch products"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// ListAll returns every product including inactive ones (admin view)
func (h *Handler) ListAll(c echo.Context) error {
	products, err := h.Service.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch products"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// ProductRequest is the body for create and update.
type ProductRequest struct {
	Name           string          `json:"name" validate:"required"`
	Price          decimal.Decimal `json:"price"`
	Description    string          `json:"description"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Active         bool            `json:"active"`
}

// Create adds a product (admin)
func (h *Handler) Create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product name is required"})
	}

	p, err := h.Service.Add(c.Request().Context(), Product{
		Name:           req.Name,
		Price:          req.Price,
		Description:    req.Description,
		CommissionRate: req.CommissionRate,
		Active:         req.Active,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"product": p})
}

// Update replaces a product (admin)
func (h *Handler) Update(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	existing, ok, err := h.Service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch product"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	existing.Name = req.Name
	existing.Price = req.Price
	existing.Description = req.Description
	existing.CommissionRate = req.CommissionRate
	existing.Active = req.Active
	updated, err := h.Service.Update(c.Request().Context(), existing)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update product"})
	}
	return c.JSON(http.StatusOK, echo.Map{"product": updated})
}

// Delete removes a product (admin)
func (h *Handler) Delete(c echo.Context) error {
	removed, err := h.Service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete product"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
