package model

import "github.com/shopspring/decimal"

// TradingRules is an immutable per-symbol snapshot of the exchange trading
// filters. Precision values are derived from the step sizes, not taken from
// the asset precision fields, because Binance allows a coarser lot step than
// the asset precision.
type TradingRules struct {
	Symbol             string          `json:"symbol"`
	BaseAsset          string          `json:"baseAsset"`
	QuoteAsset         string          `json:"quoteAsset"`
	BaseAssetPrecision int32           `json:"baseAssetPrecision"`
	QuotePrecision     int32           `json:"quotePrecision"`
	PricePrecision     int32           `json:"pricePrecision"`
	QuantityPrecision  int32           `json:"quantityPrecision"`
	MinPrice           decimal.Decimal `json:"minPrice"`
	MaxPrice           decimal.Decimal `json:"maxPrice"`
	PriceTick          decimal.Decimal `json:"priceTick"`
	MinQuantity        decimal.Decimal `json:"minQuantity"`
	MaxQuantity        decimal.Decimal `json:"maxQuantity"`
	QuantityStep       decimal.Decimal `json:"quantityStep"`
	MinNotional        decimal.Decimal `json:"minNotional"`
	IcebergAllowed     bool            `json:"icebergAllowed"`
	IcebergParts       int64           `json:"icebergParts"`
}

func (r *TradingRules) ValidatePrice(price decimal.Decimal) bool {
	return r.validateRange(price, r.MinPrice, r.MaxPrice, r.PriceTick)
}

func (r *TradingRules) ValidateQuantity(quantity decimal.Decimal) bool {
	return r.validateRange(quantity, r.MinQuantity, r.MaxQuantity, r.QuantityStep)
}

func (r *TradingRules) ValidateNotional(price decimal.Decimal, quantity decimal.Decimal) bool {
	return price.Mul(quantity).GreaterThan(r.MinNotional)
}

func (r *TradingRules) validateRange(value decimal.Decimal, min decimal.Decimal, max decimal.Decimal, step decimal.Decimal) bool {
	if min.IsPositive() && value.LessThan(min) {
		return false
	}

	if max.IsPositive() && value.GreaterThan(max) {
		return false
	}

	// step alignment is counted from the filter minimum, not from zero
	if min.IsPositive() && step.IsPositive() && !value.Sub(min).Mod(step).IsZero() {
		return false
	}

	return true
}
