package vat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsSingleRate(t *testing.T) {
	totals, err := ComputeTotals([]LineItem{
		{Quantity: 2, UnitPriceCents: 69900, VATRate: 5},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(139800), totals.NetCents)
	assert.Equal(t, int64(6990), totals.TaxCents)
	assert.Equal(t, int64(146790), totals.GrossCents)
	assert.Equal(t, []RateLine{{Rate: 5, NetCents: 139800, TaxCents: 6990}}, totals.Breakdown)
}

func TestComputeTotalsSameRateAggregates(t *testing.T) {
	totals, err := ComputeTotals([]LineItem{
		{Quantity: 1, UnitPriceCents: 39900, VATRate: 18},
		{Quantity: 3, UnitPriceCents: 10000, VATRate: 18},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(69900), totals.NetCents)
	assert.Equal(t, int64(12582), totals.TaxCents)
	assert.Equal(t, int64(82482), totals.GrossCents)
	assert.Len(t, totals.Breakdown, 1)
	assert.Equal(t, RateLine{Rate: 18, NetCents: 69900, TaxCents: 12582}, totals.Breakdown[0])
}

func TestComputeTotalsMultipleRates(t *testing.T) {
	totals, err := ComputeTotals([]LineItem{
		{Quantity: 2, UnitPriceCents: 100000, VATRate: 27},
		{Quantity: 1, UnitPriceCents: 50000, VATRate: 18},
		{Quantity: 3, UnitPriceCents: 200000, VATRate: 27},
		{Quantity: 1, UnitPriceCents: 75000, VATRate: 5},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(925000), totals.NetCents)
	assert.Equal(t, int64(228750), totals.TaxCents)
	assert.Equal(t, int64(1153750), totals.GrossCents)

	// Breakdown must come back sorted by rate ascending.
	assert.Equal(t, []RateLine{
		{Rate: 5, NetCents: 75000, TaxCents: 3750},
		{Rate: 18, NetCents: 50000, TaxCents: 9000},
		{Rate: 27, NetCents: 800000, TaxCents: 216000},
	}, totals.Breakdown)
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals, err := ComputeTotals(nil)
	assert.NoError(t, err)
	assert.Zero(t, totals.NetCents)
	assert.Zero(t, totals.TaxCents)
	assert.Zero(t, totals.GrossCents)
	assert.Empty(t, totals.Breakdown)
}

func TestComputeTotalsZeroQuantity(t *testing.T) {
	totals, err := ComputeTotals([]LineItem{
		{Quantity: 0, UnitPriceCents: 50000, VATRate: 27},
	})
	assert.NoError(t, err)
	assert.Zero(t, totals.NetCents)
	assert.Zero(t, totals.TaxCents)
	assert.Zero(t, totals.GrossCents)
	assert.Equal(t, []RateLine{{Rate: 27, NetCents: 0, TaxCents: 0}}, totals.Breakdown)
}

func TestComputeTotalsRounding(t *testing.T) {
	// 101 * 27% = 27.27, rounds down to 27.
	totals, err := ComputeTotals([]LineItem{
		{Quantity: 1, UnitPriceCents: 101, VATRate: 27},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(27), totals.TaxCents)
	assert.Equal(t, int64(128), totals.GrossCents)

	// 50 * 27% = 13.5, half-up rounds to 14.
	totals, err = ComputeTotals([]LineItem{
		{Quantity: 1, UnitPriceCents: 50, VATRate: 27},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(14), totals.TaxCents)
	assert.Equal(t, int64(64), totals.GrossCents)
}

func TestComputeTotalsRoundsPerBucketNotPerLine(t *testing.T) {
	// Each line alone is 0.27 of tax and would round to 0. The bucket
	// holds 2 cents at 27%, 0.54 in total, which rounds to 1.
	// 202 * 27 / 100 = 54.54 cents -> 55? That is not this case.
	totals, err := ComputeTotals([]LineItem{
		{Quantity: 1, UnitPriceCents: 1, VATRate: 27},
		{Quantity: 1, UnitPriceCents: 1, VATRate: 27},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), totals.TaxCents)
}

func TestComputeTotalsInvalidLineItem(t *testing.T) {
	_, err := ComputeTotals([]LineItem{{Quantity: -1, UnitPriceCents: 100, VATRate: 27}})
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	_, err = ComputeTotals([]LineItem{{Quantity: 1, UnitPriceCents: -100, VATRate: 27}})
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	_, err = ComputeTotals([]LineItem{{Quantity: 1, UnitPriceCents: 100, VATRate: -27}})
	assert.ErrorIs(t, err, ErrInvalidLineItem)
}
