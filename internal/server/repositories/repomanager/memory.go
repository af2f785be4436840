package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/sales"
)

// MemoryRepositoryManager serves the same repository instances whatever
// handle it is given. It doubles as the dbx.Transactor for those
// repositories: transactions are serialised by one mutex and hand out a nil
// DBTX. There is no rollback, so a unit of work must do its fallible checks
// before it mutates.
type MemoryRepositoryManager struct {
	txMu     sync.Mutex
	accounts *accounts.MemoryRepository
	products *products.MemoryRepository
	sales    *sales.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	a := accounts.NewMemoryRepository()
	p := products.NewMemoryRepository()
	return &MemoryRepositoryManager{
		accounts: a,
		products: p,
		sales:    sales.NewMemoryRepository(p, a),
	}
}

// RunMigrations is a no-op; there is no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) Products(dbx.DBTX) products.Repository { return m.products }

func (m *MemoryRepositoryManager) Sales(dbx.DBTX) sales.Repository { return m.sales }

func (m *MemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}
