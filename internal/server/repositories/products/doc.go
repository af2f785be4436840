// Package products is the stock ledger store.
//
// # Overview
//
// Repository covers product registration, partial updates and atomic
// quantity changes. Two implementations exist: PostgresRepository over a
// dbx.DBTX (*sql.DB or *sql.Tx) and MemoryRepository for the in-memory
// backend.
//
// # Consistency
//
// Upsert merges by name, ignoring case, in a single statement, so concurrent
// registrations of the same product never lose quantity. Adjust and Take
// never drive quantity below zero; they fail with common.ErrorInsufficientStock
// instead.
//
// Typical Usage
//
//	repo := products.NewPostgresRepository(db)
//	id, created, _ := repo.Upsert(ctx, in)
//	q, _ := repo.Adjust(ctx, id, -3)
//	low, _ := repo.ListAtOrBelowMinimum(ctx)
package products
