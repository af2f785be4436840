package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	a, err := r.Create(ctx, &models.Account{Name: "bob", PasswordHash: []byte("h")})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	_, err = r.Create(ctx, &models.Account{Name: "bob"})
	assert.True(t, errors.Is(err, common.ErrorConflict))

	_, err = r.Create(ctx, &models.Account{Name: "alice"})
	require.NoError(t, err)

	n, _ := r.Count(ctx)
	assert.Equal(t, int64(2), n)

	list, _ := r.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Name)

	require.NoError(t, r.SetTOTP(ctx, a.ID, "SECRET", true))
	got, err := r.GetByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "SECRET", got.TOTPSecret)
	assert.True(t, got.TOTPEnabled)

	// returned values are copies
	got.Name = "mallory"
	again, _ := r.GetByID(ctx, a.ID)
	assert.Equal(t, "bob", again.Name)

	require.NoError(t, r.Delete(ctx, a.ID))
	assert.True(t, errors.Is(r.Delete(ctx, a.ID), common.ErrorNotFound))
	_, err = r.GetByID(ctx, a.ID)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	assert.True(t, errors.Is(r.SetTOTP(ctx, a.ID, "", false), common.ErrorNotFound))
}
