package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/store"
)

// Ledger owns all wallet balance mutations. Nothing outside this type
// writes a wallet key, so a balance and its pending amount can never be
// updated piecemeal by callers.
type Ledger struct {
	store  store.Store
	logger *slog.Logger
}

func NewLedger(s store.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: s, logger: logger}
}

func walletKey(userID string) string { return fmt.Sprintf(keyWalletFmt, userID) }
func txnsKey(userID string) string   { return fmt.Sprintf(keyTxnsFmt, userID) }

// Balance returns the stored account for userID. A user that has never
// been credited gets a zero-initialized account, not an error.
func (l *Ledger) Balance(ctx context.Context, userID string) (Account, error) {
	acct, _, ok, err := store.GetJSON[Account](ctx, l.store, walletKey(userID))
	if err != nil {
		return Account{}, err
	}
	if !ok {
		return Account{UserID: userID, Balance: decimal.Zero, PendingWithdrawals: decimal.Zero}, nil
	}
	return acct, nil
}

// Credit adds amount to the user's spendable balance and records a typed
// transaction. This is the entry point the commission engine uses.
func (l *Ledger) Credit(ctx context.Context, userID string, amount decimal.Decimal, txnType, description string) error {
	if amount.Sign() <= 0 {
		return &ValidationError{Field: "amount", Reason: "credit amount must be greater than zero"}
	}
	err := l.mutate(ctx, userID, func(a *Account) {
		a.Balance = a.Balance.Add(amount)
	})
	if err != nil {
		return err
	}
	l.logger.Info("wallet credited",
		"user_id", userID, "amount", amount.String(), "type", txnType)
	return l.appendTransaction(ctx, Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        txnType,
		Direction:   "credit",
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	})
}

// ApplyApproval reserves funds for an approved withdrawal: the balance is
// debited (floored at zero) and the amount moves into pending. The debit
// happens at approval, not at request creation, so speculative requests
// cannot lock funds.
func (l *Ledger) ApplyApproval(ctx context.Context, userID string, amount decimal.Decimal) error {
	err := l.mutate(ctx, userID, func(a *Account) {
		a.Balance = decimal.Max(decimal.Zero, a.Balance.Sub(amount))
		a.PendingWithdrawals = a.PendingWithdrawals.Add(amount)
	})
	if err != nil {
		return err
	}
	return l.appendTransaction(ctx, Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        TxnWithdrawal,
		Direction:   "debit",
		Amount:      amount,
		Description: "withdrawal approved",
		CreatedAt:   time.Now().UTC(),
	})
}

// ApplyRejection is balance-neutral: nothing was debited at request time,
// so there is nothing to restore.
func (l *Ledger) ApplyRejection(ctx context.Context, userID string, amount decimal.Decimal) error {
	l.logger.Info("withdrawal rejected, wallet unchanged",
		"user_id", userID, "amount", amount.String())
	return nil
}

// ApplyPayout clears the pending amount once money has left the system.
// The balance was already debited at approval.
func (l *Ledger) ApplyPayout(ctx context.Context, userID string, amount decimal.Decimal) error {
	return l.mutate(ctx, userID, func(a *Account) {
		a.PendingWithdrawals = decimal.Max(decimal.Zero, a.PendingWithdrawals.Sub(amount))
	})
}

// Transactions returns the user's wallet history, oldest first.
func (l *Ledger) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	txns, _, _, err := store.GetJSON[[]Transaction](ctx, l.store, txnsKey(userID))
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// mutate runs a read-modify-write on the user's account with the store's
// version token guarding against a concurrent writer.
func (l *Ledger) mutate(ctx context.Context, userID string, fn func(*Account)) error {
	key := walletKey(userID)
	acct, version, ok, err := store.GetJSON[Account](ctx, l.store, key)
	if err != nil {
		return err
	}
	if !ok {
		acct = Account{UserID: userID, Balance: decimal.Zero, PendingWithdrawals: decimal.Zero}
	}
	fn(&acct)
	acct.UpdatedAt = time.Now().UTC()
	return store.PutJSON(ctx, l.store, key, acct, version)
}

func (l *Ledger) appendTransaction(ctx context.Context, txn Transaction) error {
	key := txnsKey(txn.UserID)
	txns, version, _, err := store.GetJSON[[]Transaction](ctx, l.store, key)
	if err != nil {
		return err
	}
	txns = append(txns, txn)
	return store.PutJSON(ctx, l.store, key, txns, version)
}
