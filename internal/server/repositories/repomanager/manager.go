package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/sales"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Products(db dbx.DBTX) products.Repository
	Sales(db dbx.DBTX) sales.Repository
}
