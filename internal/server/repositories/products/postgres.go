package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, price, quantity, minimum, category, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, in models.ProductUpsert) (string, bool, error) {
	query :=
		`INSERT INTO products (name, price, quantity, minimum, category)
		 VALUES ($1, $2, $3, COALESCE($4::bigint, 0), COALESCE($5::text, 'merchandise'))
		 ON CONFLICT (LOWER(name)) DO UPDATE SET
		     quantity = products.quantity + EXCLUDED.quantity,
		     price    = EXCLUDED.price,
		     minimum  = COALESCE($4::bigint, products.minimum),
		     category = COALESCE($5::text, products.category)
		 RETURNING id, (xmax = 0) AS created`

	var (
		id      string
		created bool
	)
	err := r.db.QueryRowContext(ctx, query,
		in.Name, in.Price, in.Quantity, nullInt(in.Minimum), nullCategory(in.Category)).Scan(&id, &created)

	if err != nil {
		return "", false, fmt.Errorf("db error: %w", err)
	}
	return id, created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	p := &models.Product{}
	err := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Minimum, &p.Category, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (r *PostgresRepository) ListAtOrBelowMinimum(ctx context.Context) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE minimum > 0 AND quantity <= minimum ORDER BY name`)
}

func (r *PostgresRepository) list(ctx context.Context, query string) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Minimum, &p.Category, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SetFields(ctx context.Context, id string, in models.ProductFields) error {
	query :=
		`UPDATE products SET
		     quantity = COALESCE($2::bigint, quantity),
		     minimum  = COALESCE($3::bigint, minimum),
		     category = COALESCE($4::text, category)
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, nullInt(in.Quantity), nullInt(in.Minimum), nullCategory(in.Category))
	return affectedOne(res, err)
}

func (r *PostgresRepository) Adjust(ctx context.Context, id string, delta int64) (int64, error) {
	query :=
		`UPDATE products SET quantity = quantity + $2
		 WHERE id = $1 AND quantity + $2 >= 0
		 RETURNING quantity`

	var quantity int64
	err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, r.whyNotUpdated(ctx, id)
		}
		if dbx.IsInvalidText(err) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return quantity, nil
}

func (r *PostgresRepository) Take(ctx context.Context, id string, qty int64) (decimal.Decimal, int64, error) {
	query :=
		`UPDATE products SET quantity = quantity - $2
		 WHERE id = $1 AND quantity >= $2
		 RETURNING price, quantity`

	var (
		price     decimal.Decimal
		remaining int64
	)
	err := r.db.QueryRowContext(ctx, query, id, qty).Scan(&price, &remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, 0, r.whyNotUpdated(ctx, id)
		}
		if dbx.IsInvalidText(err) {
			return decimal.Zero, 0, common.ErrorNotFound
		}
		return decimal.Zero, 0, fmt.Errorf("db error: %w", err)
	}
	return price, remaining, nil
}

// whyNotUpdated tells a missing row apart from a guarded update that
// refused to go below zero.
func (r *PostgresRepository) whyNotUpdated(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if !exists {
		return common.ErrorNotFound
	}
	return common.ErrorInsufficientStock
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		if dbx.IsInvalidText(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullCategory(v *models.Category) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
