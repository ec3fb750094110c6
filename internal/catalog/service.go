package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/store"
)

// Service manages the product catalog.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

func NewService(s store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, logger: logger}
}

// defaultProducts seeds the catalog the first time it is read, matching
// the portal's stock items.
func defaultProducts() map[string]Product {
	now := time.Now().UTC()
	ps := []Product{
		{
			ID:             "prod1",
			Name:           "PH Alkaline Water Filter",
			Price:          decimal.RequireFromString("199.99"),
			Description:    "Alkaline water filter that helps improve immunity, enhance brain function and support overall health.",
			CommissionRate: decimal.NewFromInt(15),
			Active:         true,
			CreatedDate:    now,
		},
		{
			ID:             "prod2",
			Name:           "Bio Magnetic Mattress",
			Price:          decimal.RequireFromString("499.99"),
			Description:    "Improves blood circulation, relieves pain, enhances sleep quality and boosts energy levels.",
			CommissionRate: decimal.NewFromInt(20),
			Active:         true,
			CreatedDate:    now,
		},
		{
			ID:             "prod3",
			Name:           "Premium Health Package",
			Price:          decimal.RequireFromString("799.99"),
			Description:    "Comprehensive health package combining the PH Alkaline Water Filter and the Bio Magnetic Mattress.",
			CommissionRate: decimal.NewFromInt(25),
			Active:         true,
			CreatedDate:    now,
		},
	}
	m := make(map[string]Product, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return m
}

// Seed writes the default products if the catalog does not exist yet.
func (s *Service) Seed(ctx context.Context) error {
	_, _, ok, err := s.store.Get(ctx, KeyProducts)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := store.PutJSON(ctx, s.store, KeyProducts, defaultProducts(), 0); err != nil {
		return err
	}
	s.logger.Info("catalog seeded with default products")
	return nil
}

// All returns every product, oldest first.
func (s *Service) All(ctx context.Context) ([]Product, error) {
	return s.list(ctx, func(Product) bool { return true })
}

// Active returns products visible to members.
func (s *Service) Active(ctx context.Context) ([]Product, error) {
	return s.list(ctx, func(p Product) bool { return p.Active })
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, bool, error) {
	products, _, _, err := store.GetJSON[map[string]Product](ctx, s.store, KeyProducts)
	if err != nil {
		return Product{}, false, err
	}
	p, ok := products[id]
	return p, ok, nil
}

// Add creates a product with a generated id.
func (s *Service) Add(ctx context.Context, p Product) (Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, fmt.Errorf("product name must not be blank")
	}
	if p.Price.Sign() <= 0 {
		return Product{}, fmt.Errorf("product price must be greater than zero")
	}
	p.ID = uuid.New().String()
	p.CreatedDate = time.Now().UTC()

	products, version, _, err := store.GetJSON[map[string]Product](ctx, s.store, KeyProducts)
	if err != nil {
		return Product{}, err
	}
	if products == nil {
		products = make(map[string]Product)
	}
	products[p.ID] = p
	if err := store.PutJSON(ctx, s.store, KeyProducts, products, version); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Update replaces an existing product.
func (s *Service) Update(ctx context.Context, p Product) (Product, error) {
	products, version, ok, err := store.GetJSON[map[string]Product](ctx, s.store, KeyProducts)
	if err != nil {
		return Product{}, err
	}
	if _, found := products[p.ID]; !ok || !found {
		return Product{}, fmt.Errorf("product not found: %s", p.ID)
	}
	products[p.ID] = p
	if err := store.PutJSON(ctx, s.store, KeyProducts, products, version); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Delete removes a product. Deleting an unknown id reports false.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	products, version, ok, err := store.GetJSON[map[string]Product](ctx, s.store, KeyProducts)
	if err != nil {
		return false, err
	}
	if _, found := products[id]; !ok || !found {
		return false, nil
	}
	delete(products, id)
	if err := store.PutJSON(ctx, s.store, KeyProducts, products, version); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) list(ctx context.Context, keep func(Product) bool) ([]Product, error) {
	products, _, _, err := store.GetJSON[map[string]Product](ctx, s.store, KeyProducts)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedDate.Before(out[j].CreatedDate)
	})
	return out, nil
}
