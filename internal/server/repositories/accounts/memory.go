package accounts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It is safe for
// concurrent use; LockBootstrap is a no-op because the in-memory
// transactor already serialises transactions.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Account)}
}

func (r *MemoryRepository) LockBootstrap(ctx context.Context) error { return nil }

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if a.Name == account.Name {
			return nil, common.ErrorConflict
		}
	}

	account.ID = uuid.NewString()
	account.CreatedAt = time.Now()
	stored := *account
	r.byID[stored.ID] = &stored
	return account, nil
}

func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*models.Account, 0, len(r.byID))
	for _, a := range r.byID {
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
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

func (r *MemoryRepository) SetTOTP(ctx context.Context, id string, secret string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.TOTPSecret = secret
	a.TOTPEnabled = enabled
	return nil
}
