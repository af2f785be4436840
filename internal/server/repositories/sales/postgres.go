package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Deleted products surface with an empty name and the unknown category.
const saleLineSelect = `SELECT s.id, s.account_id, s.product_id, s.quantity, s.unit_price, s.shift, s.sold_at,
       COALESCE(p.name, ''), COALESCE(p.category, 'unknown'), COALESCE(a.name, '')
  FROM sales s
  LEFT JOIN products p ON p.id = s.product_id
  LEFT JOIN accounts a ON a.id = s.account_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	query :=
		`INSERT INTO sales (account_id, product_id, quantity, unit_price, shift, sold_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		sale.AccountID, sale.ProductID, sale.Quantity, sale.UnitPrice, string(sale.Shift), sale.SoldAt).Scan(&sale.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sale, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string, from, to time.Time) ([]*models.SaleLine, error) {
	query := saleLineSelect + `
 WHERE s.account_id = $1 AND s.sold_at >= $2 AND s.sold_at < $3
 ORDER BY s.sold_at DESC, s.id`
	return r.list(ctx, query, accountID, from, to)
}

func (r *PostgresRepository) ListStaff(ctx context.Context, from, to time.Time) ([]*models.SaleLine, error) {
	query := saleLineSelect + `
 WHERE s.sold_at >= $1 AND s.sold_at < $2 AND COALESCE(a.is_admin, FALSE) = FALSE
 ORDER BY s.sold_at DESC, s.id`
	return r.list(ctx, query, from, to)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.SaleLine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SaleLine
	for rows.Next() {
		l := &models.SaleLine{}
		err := rows.Scan(&l.ID, &l.AccountID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Shift, &l.SoldAt,
			&l.ProductName, &l.Category, &l.AccountName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
