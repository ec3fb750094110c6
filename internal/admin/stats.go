package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/wallet"
)

// GET /admin/stats — the numbers on the admin dashboard header.
func (h *Handler) Overview(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.Directory.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not compute stats"})
	}
	requests, err := h.Withdrawals.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not compute stats"})
	}

	pending := 0
	var pendingAmount, paidOut decimal.Decimal
	for _, r := range requests {
		switch r.Status {
		case wallet.StatusPending:
			pending++
			pendingAmount = pendingAmount.Add(r.Amount)
		case wallet.StatusPaid:
			paidOut = paidOut.Add(r.Amount)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_users":               len(users),
		"pending_withdrawals":       pending,
		"pending_withdrawal_amount": pendingAmount,
		"total_paid_out":            paidOut,
	})
}
