package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/alerts"
	"github.com/valuelife/portal/internal/metrics"
	"github.com/valuelife/portal/internal/user"
)

// largeWithdrawalAlert is the amount at which admins get pinged.
var largeWithdrawalAlert = decimal.NewFromInt(50000)

// AdminHandler exposes the admin side of the withdrawal lifecycle.
type AdminHandler struct {
	Withdrawals *Withdrawals
	Directory   *user.Directory
	Collector   *metrics.Collector
}

func NewAdminHandler(withdrawals *Withdrawals, directory *user.Directory, collector *metrics.Collector) *AdminHandler {
	return &AdminHandler{Withdrawals: withdrawals, Directory: directory, Collector: collector}
}

// WithdrawActionRequest carries the admin's remarks and, for payouts, the
// gateway transaction reference.
type WithdrawActionRequest struct {
	Remarks       string `json:"remarks"`
	TransactionID string `json:"transaction_id"`
}

// ListPendingWithdrawals returns all withdrawals with status "pending"
func (h *AdminHandler) ListPendingWithdrawals(c echo.Context) error {
	reqs, err := h.Withdrawals.ListPending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch withdrawals"})
	}
	return c.JSON(http.StatusOK, echo.Map{"pending_withdrawals": reqs})
}

// ListAllWithdrawals returns the full request history
func (h *AdminHandler) ListAllWithdrawals(c echo.Context) error {
	reqs, err := h.Withdrawals.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch withdrawals"})
	}
	return c.JSON(http.StatusOK, echo.Map{"withdrawal_requests": reqs})
}

// ApproveWithdrawal reserves the funds and marks the request approved
func (h *AdminHandler) ApproveWithdrawal(c echo.Context) error {
	return h.process(c, StatusApproved)
}

// RejectWithdrawal marks the request rejected; the wallet is untouched
func (h *AdminHandler) RejectWithdrawal(c echo.Context) error {
	return h.process(c, StatusRejected)
}

// MarkWithdrawalPaid records the gateway payout for an approved request
func (h *AdminHandler) MarkWithdrawalPaid(c echo.Context) error {
	return h.process(c, StatusPaid)
}

func (h *AdminHandler) process(c echo.Context, status Status) error {
	id := c.Param("id")
	var req WithdrawActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if status == StatusPaid && req.TransactionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction_id is required to mark a withdrawal paid"})
	}

	processed, err := h.Withdrawals.Transition(c.Request().Context(), id, status, req.Remarks, req.TransactionID)
	if err != nil {
		return writeError(c, err)
	}

	if h.Collector != nil {
		h.Collector.RecordWithdrawalProcessed(string(status))
	}
	h.notify(c, processed)

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "withdrawal " + string(status),
		"withdrawal_id": processed.ID,
		"status":        processed.Status,
	})
}

func (h *AdminHandler) notify(c echo.Context, processed Request) {
	u, ok, err := h.Directory.FindByID(c.Request().Context(), processed.UserID)
	if err != nil || !ok {
		return
	}
	if err := alerts.EnqueueWithdrawalProcessed(
		processed.ID, u.ID, u.Email,
		processed.Amount.StringFixed(2), string(processed.Status), processed.Remarks,
	); err != nil {
		c.Logger().Warnf("could not enqueue withdrawal notification: %v", err)
	}
	if processed.Status == StatusApproved && processed.Amount.GreaterThanOrEqual(largeWithdrawalAlert) {
		_ = alerts.EnqueueAdminAlert("warning",
			"large withdrawal approved: "+processed.ID+" for ₹"+processed.Amount.StringFixed(2))
	}
}
