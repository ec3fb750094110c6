package commission

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the member dashboard numbers.
type Handler struct {
	Engine *Engine
}

func NewHandler(e *Engine) *Handler {
	return &Handler{Engine: e}
}

// Stats returns team size and earnings by bonus type for a member
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.Engine.StatsForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		var unknown *UnknownUserError
		if errors.As(err, &unknown) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": unknown.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not compute stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}
