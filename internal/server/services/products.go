package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/products"
)

// UpsertResult reports the product id and whether the call created it.
type UpsertResult struct {
	ID      string
	Created bool
}

// ProductService is the stock ledger.
type ProductService struct {
	deps Deps
}

func NewProductService(d Deps) *ProductService {
	return &ProductService{deps: d.withDefaults()}
}

func (s *ProductService) repo() products.Repository {
	return s.deps.Repos.Products(s.deps.Tx.Conn())
}

// Upsert registers a product or merges into the one with the same name,
// ignoring case. An unrecognised category is treated as omitted: a new
// product gets DefaultCategory and a merged one keeps its own.
func (s *ProductService) Upsert(ctx context.Context, in models.ProductUpsert) (*UpsertResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return nil, fmt.Errorf("%w: name is required", common.ErrorInvalidInput)
	case in.Price.IsNegative():
		return nil, fmt.Errorf("%w: price must not be negative", common.ErrorInvalidInput)
	case in.Quantity < 0:
		return nil, fmt.Errorf("%w: quantity must not be negative", common.ErrorInvalidInput)
	case in.Minimum != nil && *in.Minimum < 0:
		return nil, fmt.Errorf("%w: minimum must not be negative", common.ErrorInvalidInput)
	}
	if in.Category != nil && !in.Category.Valid() {
		in.Category = nil
	}

	id, created, err := s.repo().Upsert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("error saving product: %w", err)
	}
	return &UpsertResult{ID: id, Created: created}, nil
}

func (s *ProductService) SetFields(ctx context.Context, id string, in models.ProductFields) error {
	if (in.Quantity != nil && *in.Quantity < 0) || (in.Minimum != nil && *in.Minimum < 0) {
		return fmt.Errorf("%w: values must not be negative", common.ErrorInvalidInput)
	}
	in.Category = normalizeCategory(in.Category)

	if err := s.repo().SetFields(ctx, id, in); err != nil {
		return fmt.Errorf("error updating product: %w", err)
	}
	return nil
}

// Increase adds n units and returns the new quantity.
func (s *ProductService) Increase(ctx context.Context, id string, n int64) (int64, error) {
	if n <= 0 {
		return 0, common.ErrorInvalidAmount
	}
	return s.adjust(ctx, id, n)
}

// Decrease removes n units and returns the new quantity. It never drives
// stock below zero.
func (s *ProductService) Decrease(ctx context.Context, id string, n int64) (int64, error) {
	if n <= 0 {
		return 0, common.ErrorInvalidAmount
	}
	return s.adjust(ctx, id, -n)
}

func (s *ProductService) adjust(ctx context.Context, id string, delta int64) (int64, error) {
	q, err := s.repo().Adjust(ctx, id, delta)
	if err != nil {
		if errors.Is(err, common.ErrorInsufficientStock) {
			s.deps.Metrics.StockRejected()
		}
		return 0, fmt.Errorf("error adjusting stock: %w", err)
	}
	return q, nil
}

// Remove deletes the product. Its sales stay in the journal.
func (s *ProductService) Remove(ctx context.Context, id string) error {
	if err := s.repo().Delete(ctx, id); err != nil {
		return fmt.Errorf("error removing product: %w", err)
	}
	return nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repo().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading product: %w", err)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	list, err := s.repo().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	return list, nil
}

// ListAlerts returns products at or under their minimum with the number of
// units missing to reach it.
func (s *ProductService) ListAlerts(ctx context.Context) ([]models.StockAlert, error) {
	list, err := s.repo().ListAtOrBelowMinimum(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}
	alerts := make([]models.StockAlert, 0, len(list))
	for _, p := range list {
		alerts = append(alerts, models.StockAlert{Product: p, Shortfall: max(0, p.Minimum-p.Quantity)})
	}
	return alerts, nil
}

func normalizeCategory(c *models.Category) *models.Category {
	if c == nil || c.Valid() {
		return c
	}
	def := models.DefaultCategory
	return &def
}
