package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory_FallsBackToMerchandise(t *testing.T) {
	assert.Equal(t, CategoryTopUp, ParseCategory("top_up"))
	assert.Equal(t, CategoryCigarettes, ParseCategory("cigarettes"))
	assert.Equal(t, CategoryMerchandise, ParseCategory(""))
	assert.Equal(t, CategoryMerchandise, ParseCategory("FOOD"))
	assert.Equal(t, CategoryMerchandise, ParseCategory(string(CategoryUnknown)), "unknown is not storable")
}

func TestParseShift_NoDefault(t *testing.T) {
	s, err := ParseShift("morning")
	require.NoError(t, err)
	assert.Equal(t, ShiftMorning, s)

	s, err = ParseShift("night")
	require.NoError(t, err)
	assert.Equal(t, ShiftNight, s)

	_, err = ParseShift("")
	assert.True(t, errors.Is(err, common.ErrorInvalidInput))

	_, err = ParseShift("afternoon")
	assert.True(t, errors.Is(err, common.ErrorInvalidInput))
}

func TestSaleTotal(t *testing.T) {
	s := &Sale{Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")}
	assert.True(t, s.Total().Equal(decimal.RequireFromString("7.5")))
}
