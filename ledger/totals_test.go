package ledger

import (
	"testing"

	"beautyconsult-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCompute_PriceTimesQuantity(t *testing.T) {
	cases := []struct {
		qty   int
		price int64
		vat   int64
	}{
		{1, 10000, 0},
		{3, 25000, 7500},
		{999, 99999999, 1},
		{2, -50000, 0},
		{5, -1, -1},
	}
	for _, tc := range cases {
		got := Compute(tc.qty, models.Int64Ptr(tc.price), models.Int64Ptr(tc.vat))
		assert.Equal(t, tc.price*int64(tc.qty), got.LineTotal)
		assert.Equal(t, got.LineTotal+tc.vat, got.GrandTotal)
	}
}

func TestCompute_NegativePriceFlagged(t *testing.T) {
	got := Compute(2, models.Int64Ptr(-50000), models.Int64Ptr(0))

	assert.Equal(t, int64(-100000), got.LineTotal)
	assert.Equal(t, int64(-100000), got.GrandTotal)
	assert.True(t, got.Negative)
}

func TestCompute_UnsetInputs(t *testing.T) {
	assert.Equal(t, Totals{}, Compute(3, nil, nil))

	got := Compute(0, models.Int64Ptr(1000), models.Int64Ptr(50))
	assert.Equal(t, int64(0), got.LineTotal)
	assert.Equal(t, int64(50), got.GrandTotal)

	got = Compute(-4, models.Int64Ptr(1000), nil)
	assert.Equal(t, int64(0), got.LineTotal)
	assert.Equal(t, int64(0), got.GrandTotal)
}

func TestVATPreview_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(1000), VATPreview(10000))
	assert.Equal(t, int64(3), VATPreview(25))
	assert.Equal(t, int64(2), VATPreview(24))
	assert.Equal(t, int64(-2), VATPreview(-25))
	assert.Equal(t, int64(-3), VATPreview(-26))
	assert.Equal(t, int64(0), VATPreview(0))
	assert.Equal(t, []int64{0, 1500}, VATOptions(15000))
}
