package wallet

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/metrics"
	"github.com/valuelife/portal/internal/store"
	"github.com/valuelife/portal/internal/user"
)

// DirectoryAdapter bridges the full user directory to the lifecycle's
// narrower port.
type DirectoryAdapter struct {
	Directory *user.Directory
}

func (a DirectoryAdapter) FindByID(ctx context.Context, id string) (UserRef, bool, error) {
	u, ok, err := a.Directory.FindByID(ctx, id)
	if err != nil || !ok {
		return UserRef{}, false, err
	}
	return UserRef{ID: u.ID, Name: u.Name}, true, nil
}

// Handler exposes the member-facing wallet routes.
type Handler struct {
	Ledger      *Ledger
	Withdrawals *Withdrawals
	Collector   *metrics.Collector
	validate    *validator.Validate
}

func NewHandler(ledger *Ledger, withdrawals *Withdrawals, collector *metrics.Collector) *Handler {
	return &Handler{
		Ledger:      ledger,
		Withdrawals: withdrawals,
		Collector:   collector,
		validate:    validator.New(),
	}
}

// Balance returns the user's wallet balance
func (h *Handler) Balance(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user ID is required"})
	}

	acct, err := h.Ledger.Balance(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch wallet balance"})
	}

	if h.Collector != nil {
		bal, _ := acct.Balance.Float64()
		h.Collector.UpdateWalletBalance(userID, bal)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":             userID,
		"balance":             acct.Balance,
		"pending_withdrawals": acct.PendingWithdrawals,
	})
}

// GetTransactions returns the user's wallet history
func (h *Handler) GetTransactions(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user ID is required"})
	}
	txns, err := h.Ledger.Transactions(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": txns})
}

// CreateWithdrawalRequest is the body for POST /wallet/withdrawals.
type CreateWithdrawalRequest struct {
	UserID            string          `json:"user_id" validate:"required"`
	Amount            decimal.Decimal `json:"amount"`
	BankName          string          `json:"bank_name"`
	AccountNumber     string          `json:"account_number"`
	IFSCCode          string          `json:"ifsc_code"`
	AccountHolderName string          `json:"account_holder_name"`
}

// CreateWithdrawal files a new withdrawal request
func (h *Handler) CreateWithdrawal(c echo.Context) error {
	var req CreateWithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}

	created, err := h.Withdrawals.CreateRequest(c.Request().Context(), req.UserID, req.Amount, AccountDetails{
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
		AccountHolderName: req.AccountHolderName,
	})
	if err != nil {
		return writeError(c, err)
	}

	if h.Collector != nil {
		h.Collector.RecordWithdrawalCreated()
	}
	return c.JSON(http.StatusCreated, echo.Map{"withdrawal_request": created})
}

// ListWithdrawals returns the user's own withdrawal requests
func (h *Handler) ListWithdrawals(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user ID is required"})
	}
	reqs, err := h.Withdrawals.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch withdrawal requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"withdrawal_requests": reqs})
}

// writeError maps the lifecycle's typed errors to status codes with the
// error's own message, so every failure stays distinct and actionable.
func writeError(c echo.Context, err error) error {
	var (
		ve *ValidationError
		ne *NotFoundError
		te *InvalidTransitionError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.As(err, &ne):
		return c.JSON(http.StatusNotFound, echo.Map{"error": ne.Error()})
	case errors.As(err, &te):
		return c.JSON(http.StatusConflict, echo.Map{"error": te.Error()})
	case errors.Is(err, store.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "record was modified concurrently, reload and retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
