package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const SideBuy = "BUY"
const SideSell = "SELL"

const DistributionEqual = "equal"
const DistributionAscending = "asc"
const DistributionDescending = "desc"

const QuantityIntentBase = "base"
const QuantityIntentQuote = "quote"
const QuantityIntentPercent = "percent"

type SpreadOptions struct {
	Iceberg         bool `json:"iceberg"`
	MakerOnly       bool `json:"makerOnly"`
	CancelStops     bool `json:"cancelStops"`
	DeferPercentage bool `json:"deferPercentage"`
}

type SpreadRequest struct {
	Side           string           `json:"side"`
	Base           string           `json:"base"`
	Quote          string           `json:"quote"`
	MinPrice       decimal.Decimal  `json:"minPrice"`
	MaxPrice       decimal.Decimal  `json:"maxPrice"`
	Price          decimal.Decimal  `json:"price"`
	OrderCount     int              `json:"orderCount"`
	QuantityIntent string           `json:"quantityIntent"`
	QuantityValue  decimal.Decimal  `json:"quantityValue"`
	Distribution   string           `json:"distribution"`
	Options        SpreadOptions    `json:"options"`
	TriggerPrice   *decimal.Decimal `json:"triggerPrice,omitempty"`
}

func (r *SpreadRequest) GetSymbol() string {
	return fmt.Sprintf("%s%s", r.Base, r.Quote)
}

func (r *SpreadRequest) IsSell() bool {
	return r.Side == SideSell
}

func (r *SpreadRequest) IsSpread() bool {
	return r.OrderCount > 1
}

func (r *SpreadRequest) IsDeferred() bool {
	return r.TriggerPrice != nil
}

func (r *SpreadRequest) Validate() error {
	if r.Side != SideBuy && r.Side != SideSell {
		return errors.New(fmt.Sprintf("Unknown side: %s", r.Side))
	}

	if len(r.Base) == 0 || len(r.Quote) == 0 {
		return errors.New("Base and quote assets are required")
	}

	if r.OrderCount < 1 {
		return errors.New("Order count must be >= 1")
	}

	if r.IsSpread() && !r.MinPrice.IsPositive() {
		return errors.New("Price range bounds must be positive")
	}

	if r.IsSpread() && r.MinPrice.GreaterThan(r.MaxPrice) {
		return errors.New(fmt.Sprintf(
			"Invalid price range: %s > %s",
			r.MinPrice.String(),
			r.MaxPrice.String(),
		))
	}

	if !r.IsSpread() && !r.Price.IsPositive() {
		return errors.New("Price is required for a single order")
	}

	switch r.Distribution {
	case DistributionEqual, DistributionAscending, DistributionDescending:
	default:
		return errors.New(fmt.Sprintf("Unknown distribution: %s", r.Distribution))
	}

	switch r.QuantityIntent {
	case QuantityIntentBase, QuantityIntentQuote, QuantityIntentPercent:
	default:
		return errors.New(fmt.Sprintf("Unknown quantity intent: %s", r.QuantityIntent))
	}

	if !r.QuantityValue.IsPositive() {
		return errors.New("Quantity value must be positive")
	}

	return nil
}

// OrderSpec is one rung of a spread: its own price, quantity and cost.
// Cost is always round-down(price * quantity, quote precision) and is
// recomputed after every quantity adjustment.
type OrderSpec struct {
	Number     int             `json:"number"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Cost       decimal.Decimal `json:"cost"`
	IcebergQty decimal.Decimal `json:"icebergQty"`
	Validation string          `json:"validation,omitempty"`
}

func (o *OrderSpec) RecalculateCost(quotePrecision int32) {
	o.Cost = o.Price.Mul(o.Quantity).RoundDown(quotePrecision)
}

const ValidationPassed = "OK"

func (o *OrderSpec) IsValid() bool {
	return o.Validation == ValidationPassed
}

type SpreadResult struct {
	Symbol         string          `json:"symbol"`
	Payload        []OrderSpec     `json:"payload"`
	Quantity       decimal.Decimal `json:"quantity"`
	Valid          bool            `json:"valid"`
	Executed       bool            `json:"executed"`
	TriggerOrderId *int64          `json:"triggerOrderId,omitempty"`
}
