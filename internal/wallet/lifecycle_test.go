package wallet

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuelife/portal/internal/store"
)

type stubDirectory map[string]string // id -> name

func (d stubDirectory) FindByID(_ context.Context, id string) (UserRef, bool, error) {
	name, ok := d[id]
	return UserRef{ID: id, Name: name}, ok, nil
}

func newTestWithdrawals(t *testing.T) (*Withdrawals, *Ledger) {
	t.Helper()
	st := store.NewMemory()
	ledger := NewLedger(st, nil)
	dir := stubDirectory{"u1": "Asha Verma", "u2": "Ravi Kumar"}
	return NewWithdrawals(st, ledger, dir, nil), ledger
}

func validDetails() AccountDetails {
	return AccountDetails{
		BankName:          "State Bank",
		AccountNumber:     "1234567890",
		IFSCCode:          "SBIN0001234",
		AccountHolderName: "Asha Verma",
	}
}

func TestCreateRequest(t *testing.T) {
	w, _ := newTestWithdrawals(t)
	ctx := context.Background()

	req, err := w.CreateRequest(ctx, "u1", dec(t, "500"), validDetails())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "Asha Verma", req.UserName)
	assert.Nil(t, req.ProcessedDate)

	listed, err := w.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, req.ID, listed[0].ID)
	assert.Equal(t, StatusPending, listed[0].Status)
}

func TestCreateRequest_NoBalanceCheck(t *testing.T) {
	w, ledger := newTestWithdrawals(t)
	ctx := context.Background()

	// Balance is zero; the request is still admitted for admin review.
	req, err := w.CreateRequest(ctx, "u1", dec(t, "500"), validDetails())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero(), "creating a request must not touch the wallet")
	assert.True(t, acct.PendingWithdrawals.IsZero())
}

func TestCreateRequest_Validation(t *testing.T) {
	w, _ := newTestWithdrawals(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    string
		amount    decimal.Decimal
		mutate    func(*AccountDetails)
		wantField string
		notFound  bool
	}{
		{"zero amount", "u1", decimal.Zero, nil, "amount", false},
		{"negative amount", "u1", decimal.NewFromInt(-10), nil, "amount", false},
		{"unknown user", "ghost", decimal.NewFromInt(100), nil, "", true},
		{"blank bank name", "u1", decimal.NewFromInt(100), func(d *AccountDetails) { d.BankName = " " }, "bank_name", false},
		{"blank account number", "u1", decimal.NewFromInt(100), func(d *AccountDetails) { d.AccountNumber = "" }, "account_number", false},
		{"blank ifsc", "u1", decimal.NewFromInt(100), func(d *AccountDetails) { d.IFSCCode = "" }, "ifsc_code", false},
		{"blank holder name", "u1", decimal.NewFromInt(100), func(d *AccountDetails) { d.AccountHolderName = "" }, "account_holder_name", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := validDetails()
			if tt.mutate != nil {
				tt.mutate(&details)
			}
			_, err := w.CreateRequest(ctx, tt.userID, tt.amount, details)
			require.Error(t, err)
			if tt.notFound {
				var ne *NotFoundError
				require.ErrorAs(t, err, &ne)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestTransition_ApproveDebitsWallet(t *testing.T) {
	w, ledger := newTestWithdrawals(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "800"), TxnReferralBonus, ""))
	req, err := w.CreateRequest(ctx, "u1", dec(t, "500"), validDetails())
	require.NoError(t, err)

	processed, err := w.Transition(ctx, req.ID, StatusApproved, "ok to pay", "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, processed.Status)
	require.NotNil(t, processed.ProcessedDate)
	assert.Equal(t, "ok to pay", processed.Remarks)

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec(t, "300")))
	assert.True(t, acct.PendingWithdrawals.Equal(dec(t, "500")))
}

func TestTransition_ApproveClampsOverdraft(t *testing.T) {
	w, ledger := newTestWithdrawals(t)
	ctx := context.Background()

	req, err := w.CreateRequest(ctx, "u1", dec(t, "500"), validDetails())
	require.NoError(t, err)

	_, err = w.Transition(ctx, req.ID, StatusApproved, "", "")
	require.NoError(t, err)

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero())
	assert.True(t, acct.PendingWithdrawals.Equal(dec(t, "500")))
}

func TestTransition_DoubleApproveDoesNotDoubleDebit(t *testing.T) {
	w, ledger := newTestWithdrawals(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "1000"), TxnReferralBonus, ""))
	req, err := w.CreateRequest(ctx, "u1", dec(t, "400"), validDetails())
	require.NoError(t, err)

	_, err = w.Transition(ctx, req.ID, StatusApproved, "", "")
	require.NoError(t, err)

	_, err = w.Transition(ctx, req.ID, StatusApproved, "", "")
	var te *InvalidTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusApproved, te.From)

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec(t, "600")), "second approval must not debit again")
	assert.True(t, acct.PendingWithdrawals.Equal(dec(t, "400")))
}

func TestTransition_RejectIsBalanceNeutral(t *testing.T) {
	w, ledger := newTestWithdrawals(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "1000"), TxnReferralBonus, ""))
	req, err := w.CreateRequest(ctx, "u1", dec(t, "400"), validDetails())
	require.NoError(t, err)

	before, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)

	processed, err := w.Transition(ctx, req.ID, StatusRejected, "insufficient funds", "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, processed.Status)

	after, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(before.Balance))
	assert.True(t, after.PendingWithdrawals.Equal(before.PendingWithdrawals))
}

func TestTransition_PaidClearsPendingAndStoresTxnID(t *testing.T) {
	w, ledger := newTestWithdrawals(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "1000"), TxnReferralBonus, ""))
	req, err := w.CreateRequest(ctx, "u1", dec(t, "400"), validDetails())
	require.NoError(t, err)

	_, err = w.Transition(ctx, req.ID, StatusApproved, "", "")
	require.NoError(t, err)
	paid, err := w.Transition(ctx, req.ID, StatusPaid, "", "UTR-99887766")
	require.NoError(t, err)
	assert.Equal(t, "UTR-99887766", paid.TransactionID)

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.PendingWithdrawals.IsZero())
	assert.True(t, acct.Balance.Equal(dec(t, "600")))
}

func TestTransition_IllegalMoves(t *testing.T) {
	w, _ := newTestWithdrawals(t)
	ctx := context.Background()

	req, err := w.CreateRequest(ctx, "u1", dec(t, "100"), validDetails())
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup []Status
		to    Status
	}{
		{"pending to paid skips approval", nil, StatusPaid},
		{"rejected is terminal", []Status{StatusRejected}, StatusApproved},
		{"paid is terminal", []Status{StatusApproved, StatusPaid}, StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := w.CreateRequest(ctx, "u2", dec(t, "100"), validDetails())
			require.NoError(t, err)
			for _, s := range tt.setup {
				txn := ""
				if s == StatusPaid {
					txn = "UTR-1"
				}
				_, err = w.Transition(ctx, r.ID, s, "", txn)
				require.NoError(t, err)
			}
			_, err = w.Transition(ctx, r.ID, tt.to, "", "")
			var te *InvalidTransitionError
			require.ErrorAs(t, err, &te)
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		_, err := w.Transition(ctx, req.ID, Status("archived"), "", "")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestTransition_UnknownRequest(t *testing.T) {
	w, _ := newTestWithdrawals(t)

	_, err := w.Transition(context.Background(), "unknown-id", StatusApproved, "", "")
	var ne *NotFoundError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, ne.Error(), "unknown-id")
}

func TestListForUser_InsertionOrderAndFiltering(t *testing.T) {
	w, _ := newTestWithdrawals(t)
	ctx := context.Background()

	first, err := w.CreateRequest(ctx, "u1", dec(t, "100"), validDetails())
	require.NoError(t, err)
	_, err = w.CreateRequest(ctx, "u2", dec(t, "200"), validDetails())
	require.NoError(t, err)
	second, err := w.CreateRequest(ctx, "u1", dec(t, "300"), validDetails())
	require.NoError(t, err)

	listed, err := w.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)

	pending, err := w.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}
