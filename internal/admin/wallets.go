package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AdminWallet is the per-member row on the wallet monitoring screen.
type AdminWallet struct {
	UserID             string          `json:"user_id"`
	Name               string          `json:"name"`
	Balance            decimal.Decimal `json:"balance"`
	PendingWithdrawals decimal.Decimal `json:"pending_withdrawals"`
}

// GET /admin/wallets
func (h *Handler) ListWallets(c echo.Context) error {
	users, err := h.Directory.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch wallets"})
	}

	wallets := make([]AdminWallet, 0, len(users))
	var totalBalance, totalPending decimal.Decimal
	for _, u := range users {
		acct, err := h.Ledger.Balance(c.Request().Context(), u.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read wallet record"})
		}
		wallets = append(wallets, AdminWallet{
			UserID:             u.ID,
			Name:               u.Name,
			Balance:            acct.Balance,
			PendingWithdrawals: acct.PendingWithdrawals,
		})
		totalBalance = totalBalance.Add(acct.Balance)
		totalPending = totalPending.Add(acct.PendingWithdrawals)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"wallets":       wallets,
		"total_balance": totalBalance,
		"total_pending": totalPending,
	})
}

// GET /admin/users
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.Directory.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
