package vat

import (
	"errors"
	"sort"
)

// LineItem is a single invoice line expressed in minor currency units.
type LineItem struct {
	Quantity       int64 `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	VATRate        int64 `json:"vat_rate"`
}

// RateLine is the aggregated net and tax for one VAT rate.
type RateLine struct {
	Rate     int64 `json:"rate"`
	NetCents int64 `json:"net_cents"`
	TaxCents int64 `json:"tax_cents"`
}

// Totals is the result of a full invoice computation. Breakdown is
// sorted by rate ascending.
type Totals struct {
	NetCents   int64      `json:"net_cents"`
	TaxCents   int64      `json:"tax_cents"`
	GrossCents int64      `json:"gross_cents"`
	Breakdown  []RateLine `json:"breakdown"`
}

var ErrInvalidLineItem = errors.New("invalid_line_item")

// ComputeTotals aggregates line items into net, tax and gross totals.
//
// Net amounts are summed per VAT rate first and tax is rounded half-up
// once per rate bucket, never per line. Working in minor units keeps
// the arithmetic exact.
func ComputeTotals(items []LineItem) (Totals, error) {
	netByRate := make(map[int64]int64)

	for _, item := range items {
		if item.Quantity < 0 || item.UnitPriceCents < 0 || item.VATRate < 0 {
			return Totals{}, ErrInvalidLineItem
		}
		netByRate[item.VATRate] += item.Quantity * item.UnitPriceCents
	}

	rates := make([]int64, 0, len(netByRate))
	for rate := range netByRate {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i] < rates[j] })

	totals := Totals{Breakdown: make([]RateLine, 0, len(rates))}
	for _, rate := range rates {
		net := netByRate[rate]
		tax := roundHalfUp(net * rate)
		totals.Breakdown = append(totals.Breakdown, RateLine{
			Rate:     rate,
			NetCents: net,
			TaxCents: tax,
		})
		totals.NetCents += net
		totals.TaxCents += tax
	}
	totals.GrossCents = totals.NetCents + totals.TaxCents

	return totals, nil
}

// roundHalfUp divides a rate-scaled amount by 100, rounding .5 away
// from zero. Inputs are never negative here.
func roundHalfUp(scaled int64) int64 {
	return (scaled + 50) / 100
}
