package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuelife/portal/internal/catalog"
	"github.com/valuelife/portal/internal/store"
)

type recordingListener struct {
	paid []Order
}

func (r *recordingListener) OrderPaid(_ context.Context, o Order) error {
	r.paid = append(r.paid, o)
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	st := store.NewMemory()
	cat := catalog.NewService(st, nil)
	require.NoError(t, cat.Seed(context.Background()))
	return NewService(st, cat, nil)
}

func TestCreateSnapshotsPrice(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	o, err := s.Create(ctx, "u1", "prod1")
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, o.Status)
	assert.Equal(t, "INR", o.Currency)
	assert.True(t, o.Amount.Equal(decimal.RequireFromString("199.99")))
	assert.Empty(t, o.PaymentID)

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(o.Amount))
}

func TestCreateUnknownOrInactiveProduct(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "u1", "ghost")
	assert.Error(t, err)

	p, ok, err := s.catalog.Get(ctx, "prod2")
	require.NoError(t, err)
	require.True(t, ok)
	p.Active = false
	_, err = s.catalog.Update(ctx, p)
	require.NoError(t, err)

	_, err = s.Create(ctx, "u1", "prod2")
	assert.Error(t, err)
}

func TestRecordPayment(t *testing.T) {
	s := newTestService(t)
	listener := &recordingListener{}
	s.SetListener(listener)
	ctx := context.Background()

	o, err := s.Create(ctx, "u1", "prod1")
	require.NoError(t, err)

	paid, err := s.RecordPayment(ctx, o.ID, "pay_123", StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, "pay_123", paid.PaymentID)

	require.Len(t, listener.paid, 1)
	assert.Equal(t, o.ID, listener.paid[0].ID)

	byPayment, ok, err := s.GetByPaymentID(ctx, "pay_123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o.ID, byPayment.ID)
}

func TestRecordPaymentFailed(t *testing.T) {
	s := newTestService(t)
	listener := &recordingListener{}
	s.SetListener(listener)
	ctx := context.Background()

	o, err := s.Create(ctx, "u1", "prod1")
	require.NoError(t, err)

	failed, err := s.RecordPayment(ctx, o.ID, "pay_456", StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Empty(t, listener.paid, "failed payments must not trigger commissions")
}

func TestRecordPaymentGuards(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	o, err := s.Create(ctx, "u1", "prod1")
	require.NoError(t, err)

	_, err = s.RecordPayment(ctx, o.ID, "pay_1", StatusRefunded)
	assert.Error(t, err, "only paid or failed are valid callback statuses")

	_, err = s.RecordPayment(ctx, o.ID, "pay_1", StatusPaid)
	require.NoError(t, err)

	// A settled order does not settle again.
	_, err = s.RecordPayment(ctx, o.ID, "pay_2", StatusPaid)
	assert.Error(t, err)
}

func TestRefund(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	o, err := s.Create(ctx, "u1", "prod1")
	require.NoError(t, err)

	_, err = s.Refund(ctx, o.ID)
	assert.Error(t, err, "only paid orders are refundable")

	_, err = s.RecordPayment(ctx, o.ID, "pay_1", StatusPaid)
	require.NoError(t, err)

	refunded, err := s.Refund(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, refunded.Status)

	_, err = s.Refund(ctx, o.ID)
	assert.Error(t, err)
}

func TestListForUserAndPaidCount(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	o1, err := s.Create(ctx, "u1", "prod1")
	require.NoError(t, err)
	o2, err := s.Create(ctx, "u1", "prod2")
	require.NoError(t, err)
	_, err = s.Create(ctx, "u2", "prod1")
	require.NoError(t, err)

	_, err = s.RecordPayment(ctx, o1.ID, "pay_1", StatusPaid)
	require.NoError(t, err)
	_, err = s.RecordPayment(ctx, o2.ID, "pay_2", StatusFailed)
	require.NoError(t, err)

	list, err := s.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, o1.ID, list[0].ID)
	assert.Equal(t, o2.ID, list[1].ID)

	n, err := s.PaidCountForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed orders must not count as paid")
}
