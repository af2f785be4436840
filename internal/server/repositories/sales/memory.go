package sales

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/google/uuid"
)

// ProductLookup resolves the current state of a product.
type ProductLookup interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

// AccountLookup resolves the current state of an account.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// MemoryRepository keeps the journal in process memory and joins product and
// account details at read time, like the SQL implementation does.
type MemoryRepository struct {
	mu       sync.RWMutex
	sales    []models.Sale
	products ProductLookup
	accounts AccountLookup
}

func NewMemoryRepository(products ProductLookup, accounts AccountLookup) *MemoryRepository {
	return &MemoryRepository{products: products, accounts: accounts}
}

func (r *MemoryRepository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sale.ID = uuid.NewString()
	if sale.SoldAt.IsZero() {
		sale.SoldAt = time.Now()
	}
	r.sales = append(r.sales, *sale)
	return sale, nil
}

func (r *MemoryRepository) ListByAccount(ctx context.Context, accountID string, from, to time.Time) ([]*models.SaleLine, error) {
	return r.collect(ctx, from, to, func(s *models.Sale, a *models.Account) bool {
		return s.AccountID == accountID
	})
}

func (r *MemoryRepository) ListStaff(ctx context.Context, from, to time.Time) ([]*models.SaleLine, error) {
	return r.collect(ctx, from, to, func(s *models.Sale, a *models.Account) bool {
		return a == nil || !a.IsAdmin
	})
}

func (r *MemoryRepository) collect(ctx context.Context, from, to time.Time, keep func(*models.Sale, *models.Account) bool) ([]*models.SaleLine, error) {
	r.mu.RLock()
	window := make([]models.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		if !s.SoldAt.Before(from) && s.SoldAt.Before(to) {
			window = append(window, s)
		}
	}
	r.mu.RUnlock()

	var result []*models.SaleLine
	for i := range window {
		s := window[i]

		account, err := r.accounts.GetByID(ctx, s.AccountID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		if !keep(&s, account) {
			continue
		}

		line := &models.SaleLine{Sale: s, Category: models.CategoryUnknown}
		if account != nil {
			line.AccountName = account.Name
		}

		product, err := r.products.Get(ctx, s.ProductID)
		switch {
		case err == nil:
			line.ProductName = product.Name
			line.Category = product.Category
		case !errors.Is(err, common.ErrorNotFound):
			return nil, err
		}
		result = append(result, line)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].SoldAt.After(result[j].SoldAt) })
	return result, nil
}
