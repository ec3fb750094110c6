package orders

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/valuelife/portal/internal/catalog"
	"github.com/valuelife/portal/internal/store"
)

// Listener is notified after an order settles as paid. The commission
// engine hangs off this hook.
type Listener interface {
	OrderPaid(ctx context.Context, o Order) error
}

// Service manages purchase orders.
type Service struct {
	store    store.Store
	catalog  *catalog.Service
	listener Listener
	logger   *slog.Logger
}

func NewService(s store.Store, cat *catalog.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, catalog: cat, logger: logger}
}

// SetListener attaches the paid-order hook. Wired after construction
// because the commission engine needs this service for order history.
func (s *Service) SetListener(l Listener) { s.listener = l }

// Create opens an order for a product at its current catalog price.
func (s *Service) Create(ctx context.Context, userID, productID string) (Order, error) {
	p, ok, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, fmt.Errorf("product not found: %s", productID)
	}
	if !p.Active {
		return Order{}, fmt.Errorf("product is not available: %s", productID)
	}

	now := time.Now().UTC()
	o := Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Amount:    p.Price,
		Currency:  "INR",
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, o, true); err != nil {
		return Order{}, err
	}
	return o, nil
}

// RecordPayment settles an order from the gateway callback. Only created
// orders settle; a paid order triggers the commission listener.
func (s *Service) RecordPayment(ctx context.Context, orderID, paymentID string, status Status) (Order, error) {
	if status != StatusPaid && status != StatusFailed {
		return Order{}, fmt.Errorf("payment status must be paid or failed, got %s", status)
	}
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.Status != StatusCreated {
		return Order{}, fmt.Errorf("order %s already settled as %s", orderID, o.Status)
	}

	o.Status = status
	o.PaymentID = paymentID
	o.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, o, false); err != nil {
		return Order{}, err
	}

	if status == StatusPaid && s.listener != nil {
		if err := s.listener.OrderPaid(ctx, o); err != nil {
			// The order is settled; a failed bonus run is logged, not
			// rolled back.
			s.logger.Error("commission run failed for paid order",
				"order_id", o.ID, "error", err)
		}
	}
	return o, nil
}

// Refund reverses a paid order.
func (s *Service) Refund(ctx context.Context, orderID string) (Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.Status != StatusPaid {
		return Order{}, fmt.Errorf("only paid orders can be refunded, order %s is %s", orderID, o.Status)
	}
	o.Status = StatusRefunded
	o.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, o, false); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, orderID string) (Order, error) {
	all, _, _, err := store.GetJSON[map[string]Order](ctx, s.store, KeyOrders)
	if err != nil {
		return Order{}, err
	}
	o, ok := all[orderID]
	if !ok {
		return Order{}, fmt.Errorf("order not found: %s", orderID)
	}
	return o, nil
}

// GetByPaymentID returns the order carrying a gateway payment reference.
func (s *Service) GetByPaymentID(ctx context.Context, paymentID string) (Order, bool, error) {
	all, _, _, err := store.GetJSON[map[string]Order](ctx, s.store, KeyOrders)
	if err != nil {
		return Order{}, false, err
	}
	for _, o := range all {
		if o.PaymentID == paymentID {
			return o, true, nil
		}
	}
	return Order{}, false, nil
}

// ListForUser returns a user's orders, oldest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	all, _, _, err := store.GetJSON[map[string]Order](ctx, s.store, KeyOrders)
	if err != nil {
		return nil, err
	}
	var out []Order
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// PaidCountForUser counts a user's settled orders; the commission engine
// uses it to tell a first purchase from a repurchase.
func (s *Service) PaidCountForUser(ctx context.Context, userID string) (int, error) {
	all, _, _, err := store.GetJSON[map[string]Order](ctx, s.store, KeyOrders)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range all {
		if o.UserID == userID && o.Status == StatusPaid {
			n++
		}
	}
	return n, nil
}

func (s *Service) save(ctx context.Context, o Order, create bool) error {
	all, version, _, err := store.GetJSON[map[string]Order](ctx, s.store, KeyOrders)
	if err != nil {
		return err
	}
	if all == nil {
		all = make(map[string]Order)
	}
	if create {
		if _, exists := all[o.ID]; exists {
			return fmt.Errorf("order id collision: %s", o.ID)
		}
	}
	all[o.ID] = o
	return store.PutJSON(ctx, s.store, KeyOrders, all, version)
}
