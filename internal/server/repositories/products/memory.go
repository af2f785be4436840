package products

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryRepository keeps products in process memory. One mutex guards all
// rows, which linearises every quantity change.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[string]*models.Product
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Product)}
}

func (r *MemoryRepository) Upsert(ctx context.Context, in models.ProductUpsert) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(in.Name)
	for _, p := range r.byID {
		if strings.ToLower(p.Name) != key {
			continue
		}
		p.Quantity += in.Quantity
		p.Price = in.Price
		if in.Minimum != nil {
			p.Minimum = *in.Minimum
		}
		if in.Category != nil {
			p.Category = *in.Category
		}
		return p.ID, false, nil
	}

	p := &models.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		Quantity:  in.Quantity,
		Category:  models.DefaultCategory,
		CreatedAt: time.Now(),
	}
	if in.Minimum != nil {
		p.Minimum = *in.Minimum
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	r.byID[p.ID] = p
	return p.ID, true, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Product, error) {
	return r.filter(func(*models.Product) bool { return true }), nil
}

func (r *MemoryRepository) ListAtOrBelowMinimum(ctx context.Context) ([]*models.Product, error) {
	return r.filter(func(p *models.Product) bool { return p.Minimum > 0 && p.Quantity <= p.Minimum }), nil
}

func (r *MemoryRepository) filter(keep func(*models.Product) bool) []*models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Product
	for _, p := range r.byID {
		if keep(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (r *MemoryRepository) SetFields(ctx context.Context, id string, in models.ProductFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Minimum != nil {
		p.Minimum = *in.Minimum
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	return nil
}

func (r *MemoryRepository) Adjust(ctx context.Context, id string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	if p.Quantity+delta < 0 {
		return 0, common.ErrorInsufficientStock
	}
	p.Quantity += delta
	return p.Quantity, nil
}

func (r *MemoryRepository) Take(ctx context.Context, id string, qty int64) (decimal.Decimal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return decimal.Zero, 0, common.ErrorNotFound
	}
	if p.Quantity < qty {
		return decimal.Zero, 0, common.ErrorInsufficientStock
	}
	p.Quantity -= qty
	return p.Price, p.Quantity, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}
