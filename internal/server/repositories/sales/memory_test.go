package sales

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/products"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_JoinsCurrentState(t *testing.T) {
	ctx := context.Background()
	prods := products.NewMemoryRepository()
	accs := accounts.NewMemoryRepository()
	repo := NewMemoryRepository(prods, accs)

	admin, err := accs.Create(ctx, &models.Account{Name: "root", IsAdmin: true})
	require.NoError(t, err)
	staff, err := accs.Create(ctx, &models.Account{Name: "bob"})
	require.NoError(t, err)

	cigarettes := models.CategoryCigarettes
	gum, _, err := prods.Upsert(ctx, models.ProductUpsert{Name: "Gum", Price: decimal.NewFromInt(1), Quantity: 10, Category: &cigarettes})
	require.NoError(t, err)
	tea, _, err := prods.Upsert(ctx, models.ProductUpsert{Name: "Tea", Price: decimal.NewFromInt(2), Quantity: 10})
	require.NoError(t, err)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(account, product string, at time.Time) {
		_, err := repo.Create(ctx, &models.Sale{AccountID: account, ProductID: product, Quantity: 1,
			UnitPrice: decimal.NewFromInt(1), Shift: models.ShiftMorning, SoldAt: at})
		require.NoError(t, err)
	}
	mk(staff.ID, gum, day.Add(time.Hour))
	mk(staff.ID, tea, day.Add(2*time.Hour))
	mk(admin.ID, gum, day.Add(3*time.Hour))
	mk(staff.ID, gum, day.AddDate(0, 0, 1))

	require.NoError(t, prods.Delete(ctx, tea))

	lines, err := repo.ListByAccount(ctx, staff.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "", lines[0].ProductName, "newest first, deleted product")
	assert.Equal(t, models.CategoryUnknown, lines[0].Category)
	assert.Equal(t, "Gum", lines[1].ProductName)
	assert.Equal(t, models.CategoryCigarettes, lines[1].Category)

	staffLines, err := repo.ListStaff(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, staffLines, 2)
	for _, l := range staffLines {
		assert.Equal(t, "bob", l.AccountName)
	}

	require.NoError(t, accs.Delete(ctx, staff.ID))
	staffLines, err = repo.ListStaff(ctx, day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, staffLines, 3, "sales of deleted accounts are kept")
	assert.Equal(t, "", staffLines[0].AccountName)
}

func TestMemoryCreate_StampsMissingTime(t *testing.T) {
	repo := NewMemoryRepository(products.NewMemoryRepository(), accounts.NewMemoryRepository())
	s, err := repo.Create(context.Background(), &models.Sale{Quantity: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.SoldAt.IsZero())
}
