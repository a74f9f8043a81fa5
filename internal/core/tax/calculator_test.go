package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-desk/internal/core/domain"
)

func TestRate(t *testing.T) {
	assert.Equal(t, "0", Rate(domain.TaxFree).String())
	assert.Equal(t, "19", Rate(domain.StandardVAT).String())
	assert.Equal(t, "7", Rate(domain.ReducedVAT).String())
	assert.True(t, Rate(domain.TaxCategory("")).IsZero())
}

func TestIncludedVAT(t *testing.T) {
	tests := []struct {
		name     string
		gross    int64
		category domain.TaxCategory
		want     int64
	}{
		{"standard 119.00", 11900, domain.StandardVAT, 1900},
		{"reduced 107.00", 10700, domain.ReducedVAT, 700},
		{"tax free", 11900, domain.TaxFree, 0},
		{"unknown category", 11900, domain.TaxCategory("LUXURY"), 0},
		{"zero amount", 0, domain.StandardVAT, 0},
		{"4 plates", 2596, domain.StandardVAT, 414},
		{"8 mugs", 1192, domain.StandardVAT, 190},
		{"book rounds up", 7995, domain.ReducedVAT, 523},
		{"book 99.95", 9995, domain.ReducedVAT, 654},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IncludedVAT(tt.gross, tt.category))
		})
	}
}

func TestValueAndTax(t *testing.T) {
	plate, err := domain.NewArticle("SKU-638035", "Plate", 649, domain.StandardVAT)
	require.NoError(t, err)
	book, err := domain.NewArticle("SKU-425378", `Book "OOP"`, 9995, domain.ReducedVAT)
	require.NoError(t, err)

	order, err := domain.NewOrder(domain.NewCustomer("Eric", "Meyer"))
	require.NoError(t, err)
	require.NoError(t, order.AddItem(plate, 4))
	require.NoError(t, order.AddItem(book, 1))

	value, vat := ValueAndTax(order)
	assert.Equal(t, int64(12591), value)
	assert.Equal(t, IncludedVAT(2596, domain.StandardVAT)+IncludedVAT(9995, domain.ReducedVAT), vat)
	assert.Equal(t, int64(1068), vat)

	again, againVAT := ValueAndTax(order)
	assert.Equal(t, value, again)
	assert.Equal(t, vat, againVAT)
}

func TestValueAndTax_NilOrder(t *testing.T) {
	value, vat := ValueAndTax(nil)
	assert.Zero(t, value)
	assert.Zero(t, vat)
}
