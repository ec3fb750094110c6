package wallet

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/store"
)

// UserRef is the slice of the user directory the lifecycle needs: enough
// to validate a user id and snapshot the name onto a request.
type UserRef struct {
	ID   string
	Name string
}

// UserDirectory resolves user ids for CreateRequest.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (UserRef, bool, error)
}

// Withdrawals owns the withdrawal request lifecycle. Requests are created
// by users and move through the state machine only via Transition, which
// applies the matching ledger effect.
type Withdrawals struct {
	store  store.Store
	ledger *Ledger
	users  UserDirectory
	logger *slog.Logger
}

func NewWithdrawals(s store.Store, ledger *Ledger, users UserDirectory, logger *slog.Logger) *Withdrawals {
	if logger == nil {
		logger = slog.Default()
	}
	return &Withdrawals{store: s, ledger: ledger, users: users, logger: logger}
}

// CreateRequest validates and persists a new pending withdrawal request.
// There is deliberately no balance-sufficiency check: every request is
// admitted and deferred to admin judgement, so the wallet is untouched
// here.
func (w *Withdrawals) CreateRequest(ctx context.Context, userID string, amount decimal.Decimal, details AccountDetails) (Request, error) {
	if amount.Sign() <= 0 {
		return Request{}, &ValidationError{Field: "amount", Reason: "withdrawal amount must be greater than zero"}
	}
	for _, f := range []struct{ name, value string }{
		{"bank_name", details.BankName},
		{"account_number", details.AccountNumber},
		{"ifsc_code", details.IFSCCode},
		{"account_holder_name", details.AccountHolderName},
	} {
		if strings.TrimSpace(f.value) == "" {
			return Request{}, &ValidationError{Field: f.name, Reason: "must not be blank"}
		}
	}

	user, ok, err := w.users.FindByID(ctx, userID)
	if err != nil {
		return Request{}, err
	}
	if !ok {
		return Request{}, &NotFoundError{Kind: "user", ID: userID}
	}

	req := Request{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		UserName:       user.Name,
		Amount:         amount,
		Status:         StatusPending,
		AccountDetails: details,
		RequestDate:    time.Now().UTC(),
	}

	requests, version, _, err := store.GetJSON[map[string]Request](ctx, w.store, KeyWithdrawals)
	if err != nil {
		return Request{}, err
	}
	if requests == nil {
		requests = make(map[string]Request)
	}
	requests[req.ID] = req
	if err := store.PutJSON(ctx, w.store, KeyWithdrawals, requests, version); err != nil {
		return Request{}, err
	}

	w.logger.Info("withdrawal request created",
		"request_id", req.ID, "user_id", userID, "amount", amount.String())
	return req, nil
}

// Transition moves a request to newStatus. Illegal moves fail with
// InvalidTransitionError before anything is written; on success the
// processed date is stamped, remarks and the payout gateway's transaction
// id are stored when provided, and the matching ledger operation runs.
//
// The wallet write lands before the request-status write. If the second
// write fails the two can diverge; the error is reported and no
// compensation is attempted.
func (w *Withdrawals) Transition(ctx context.Context, requestID string, newStatus Status, remarks, transactionID string) (Request, error) {
	if !newStatus.valid() {
		return Request{}, &ValidationError{Field: "status", Reason: "unknown status " + string(newStatus)}
	}

	requests, version, ok, err := store.GetJSON[map[string]Request](ctx, w.store, KeyWithdrawals)
	if err != nil {
		return Request{}, err
	}
	req, found := requests[requestID]
	if !ok || !found {
		return Request{}, &NotFoundError{Kind: "withdrawal request", ID: requestID}
	}

	if !req.Status.CanTransition(newStatus) {
		return Request{}, &InvalidTransitionError{From: req.Status, To: newStatus}
	}

	switch newStatus {
	case StatusApproved:
		err = w.ledger.ApplyApproval(ctx, req.UserID, req.Amount)
	case StatusRejected:
		err = w.ledger.ApplyRejection(ctx, req.UserID, req.Amount)
	case StatusPaid:
		err = w.ledger.ApplyPayout(ctx, req.UserID, req.Amount)
	}
	if err != nil {
		return Request{}, err
	}

	now := time.Now().UTC()
	req.Status = newStatus
	req.ProcessedDate = &now
	if remarks != "" {
		req.Remarks = remarks
	}
	if transactionID != "" {
		req.TransactionID = transactionID
	}
	requests[requestID] = req
	if err := store.PutJSON(ctx, w.store, KeyWithdrawals, requests, version); err != nil {
		return Request{}, err
	}

	w.logger.Info("withdrawal request processed",
		"request_id", requestID, "status", string(newStatus), "user_id", req.UserID)
	return req, nil
}

// Get returns a single request by id.
func (w *Withdrawals) Get(ctx context.Context, requestID string) (Request, error) {
	requests, _, _, err := store.GetJSON[map[string]Request](ctx, w.store, KeyWithdrawals)
	if err != nil {
		return Request{}, err
	}
	req, ok := requests[requestID]
	if !ok {
		return Request{}, &NotFoundError{Kind: "withdrawal request", ID: requestID}
	}
	return req, nil
}

// ListForUser returns the user's requests in submission order.
func (w *Withdrawals) ListForUser(ctx context.Context, userID string) ([]Request, error) {
	return w.list(ctx, func(r Request) bool { return r.UserID == userID })
}

// ListPending returns all requests awaiting an admin decision.
func (w *Withdrawals) ListPending(ctx context.Context) ([]Request, error) {
	return w.list(ctx, func(r Request) bool { return r.Status == StatusPending })
}

// ListAll returns every request, oldest first.
func (w *Withdrawals) ListAll(ctx context.Context) ([]Request, error) {
	return w.list(ctx, func(Request) bool { return true })
}

func (w *Withdrawals) list(ctx context.Context, keep func(Request) bool) ([]Request, error) {
	requests, _, _, err := store.GetJSON[map[string]Request](ctx, w.store, KeyWithdrawals)
	if err != nil {
		return nil, err
	}
	out := make([]Request, 0, len(requests))
	for _, r := range requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestDate.Equal(out[j].RequestDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].RequestDate.Before(out[j].RequestDate)
	})
	return out, nil
}
