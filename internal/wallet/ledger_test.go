package wallet

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuelife/portal/internal/store"
)

func newTestLedger(t *testing.T) (*Ledger, store.Store) {
	t.Helper()
	st := store.NewMemory()
	return NewLedger(st, nil), st
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestBalance_UnknownUserIsZeroInitialized(t *testing.T) {
	ledger, _ := newTestLedger(t)

	acct, err := ledger.Balance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero())
	assert.True(t, acct.PendingWithdrawals.IsZero())
}

func TestCredit(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "3000"), TxnReferralBonus, "direct referral"))
	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "2500"), TxnTeamMatching, "pair 1"))

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec(t, "5500")), "balance = %s", acct.Balance)

	txns, err := ledger.Transactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, TxnReferralBonus, txns[0].Type)
	assert.Equal(t, TxnTeamMatching, txns[1].Type)

	t.Run("non-positive credit rejected", func(t *testing.T) {
		err := ledger.Credit(ctx, "u1", decimal.Zero, TxnReferralBonus, "")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestApplyApproval_ClampsAtZero(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "50"), TxnReferralBonus, ""))
	require.NoError(t, ledger.ApplyApproval(ctx, "u1", dec(t, "100")))

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero(), "balance = %s", acct.Balance)
	assert.True(t, acct.PendingWithdrawals.Equal(dec(t, "100")))
}

func TestApplyApproval_OnEmptyAccount(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	// Balance 0, request for 500: clamped to 0, full amount pending.
	require.NoError(t, ledger.ApplyApproval(ctx, "u1", dec(t, "500")))

	acct, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero())
	assert.True(t, acct.PendingWithdrawals.Equal(dec(t, "500")))
}

func TestApprovalThenPayout_RoundTrip(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "1000"), TxnReferralBonus, ""))
	before, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, ledger.ApplyApproval(ctx, "u1", dec(t, "400")))
	require.NoError(t, ledger.ApplyPayout(ctx, "u1", dec(t, "400")))

	after, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, after.PendingWithdrawals.Equal(before.PendingWithdrawals),
		"pending should return to pre-approval value, got %s", after.PendingWithdrawals)
	assert.True(t, after.Balance.Equal(dec(t, "600")))
}

func TestApplyRejection_IsBalanceNeutral(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Credit(ctx, "u1", dec(t, "750"), TxnRoyaltyBonus, ""))
	before, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, ledger.ApplyRejection(ctx, "u1", dec(t, "750")))

	after, err := ledger.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(before.Balance))
	assert.True(t, after.PendingWithdrawals.Equal(before.PendingWithdrawals))
}
