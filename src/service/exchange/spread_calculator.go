package exchange

import (
	"github.com/shopspring/decimal"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
)

// SpreadCalculator turns a spread request into an ordered ladder of priced
// and quantified rungs, rung #1 at the highest price. All arithmetic is
// fixed-point decimal, rounded down to the symbol's filter precision.
type SpreadCalculator struct {
	Formatter *utils.Formatter
}

var hundred = decimal.NewFromInt(100)
var two = decimal.NewFromInt(2)

// ResolveQuantity converts the request's quantity intent into a total base
// quantity. Quote-denominated intents (fixed quote amount, percent of quote
// balance on BUY) also return the quote amount to spend, which the
// error-correction step targets after per-rung rounding.
func (c *SpreadCalculator) ResolveQuantity(
	request model.SpreadRequest,
	rules *model.TradingRules,
	baseBalance decimal.Decimal,
	quoteBalance decimal.Decimal,
) (decimal.Decimal, decimal.Decimal) {
	switch request.QuantityIntent {
	case model.QuantityIntentBase:
		return request.QuantityValue, decimal.Zero

	case model.QuantityIntentPercent:
		if request.IsSell() {
			quantity := baseBalance.Mul(request.QuantityValue).Div(hundred)

			return c.Formatter.ToFixedDown(quantity, rules.QuantityPrecision), decimal.Zero
		}

		return c.resolveFromQuote(request, rules, quoteBalance.Mul(request.QuantityValue).Div(hundred))

	case model.QuantityIntentQuote:
		return c.resolveFromQuote(request, rules, request.QuantityValue)
	}

	return decimal.Zero, decimal.Zero
}

func (c *SpreadCalculator) resolveFromQuote(
	request model.SpreadRequest,
	rules *model.TradingRules,
	quoteToSpend decimal.Decimal,
) (decimal.Decimal, decimal.Decimal) {
	quantity := quoteToSpend.Div(c.referencePrice(request))

	return c.Formatter.ToFixedDown(quantity, rules.QuantityPrecision),
		c.Formatter.ToFixedDown(quoteToSpend, rules.QuotePrecision)
}

// referencePrice is the average of the price bounds, or the fixed price for
// a single order.
func (c *SpreadCalculator) referencePrice(request model.SpreadRequest) decimal.Decimal {
	if !request.IsSpread() {
		return request.Price
	}

	return request.MaxPrice.Add(request.MinPrice).Div(two)
}

func (c *SpreadCalculator) Calculate(
	request model.SpreadRequest,
	rules *model.TradingRules,
	quantity decimal.Decimal,
	quoteToSpend decimal.Decimal,
) []model.OrderSpec {
	var payload []model.OrderSpec

	if request.IsSpread() {
		prices := c.calculatePrices(request, rules)
		quantities := c.calculateQuantities(request, rules, quantity, quoteToSpend, prices)

		payload = make([]model.OrderSpec, 0)
		for index, price := range prices {
			spec := model.OrderSpec{
				Number:   index + 1,
				Price:    price,
				Quantity: quantities[index],
			}
			spec.RecalculateCost(rules.QuotePrecision)
			payload = append(payload, spec)
		}
	} else {
		spec := model.OrderSpec{
			Number:   1,
			Price:    c.Formatter.ToFixedDown(request.Price, rules.PricePrecision),
			Quantity: quantity,
		}
		spec.RecalculateCost(rules.QuotePrecision)
		payload = []model.OrderSpec{spec}
	}

	c.errorCorrect(payload, request, rules, quantity, quoteToSpend)
	c.applyIceberg(payload, request, rules)

	return payload
}

// calculatePrices spreads order count prices evenly over [min, max] and
// reverses them, so rung #1 sits at the highest price. The offset of rung k
// is width * k / (count - 1), multiplied before dividing: this keeps the two
// extreme rungs equal to min and max exactly.
func (c *SpreadCalculator) calculatePrices(request model.SpreadRequest, rules *model.TradingRules) []decimal.Decimal {
	minPrice := c.Formatter.ToFixedDown(request.MinPrice, rules.PricePrecision)
	maxPrice := c.Formatter.ToFixedDown(request.MaxPrice, rules.PricePrecision)

	spreadWidth := maxPrice.Sub(minPrice)
	intervals := decimal.NewFromInt(int64(request.OrderCount - 1))

	prices := make([]decimal.Decimal, request.OrderCount)
	for k := 0; k < request.OrderCount; k++ {
		distance := spreadWidth.Mul(decimal.NewFromInt(int64(k))).Div(intervals)
		prices[request.OrderCount-1-k] = c.Formatter.ToFixedDown(minPrice.Add(distance), rules.PricePrecision)
	}

	return prices
}

// calculateQuantities builds the per-rung quantity ladder.
//
// Weighted modes give rung i (1-indexed) the share 2i / (count * (count+1)),
// the i-th even integer over the sum of the first count even integers. The
// weights run with ascending index, and the price ladder is descending, so
// the array is reversed when the user-facing direction requires the largest
// rung at the highest price: "asc"/"desc" describe the ramp as seen from the
// current price, which mirrors between BUY and SELL.
func (c *SpreadCalculator) calculateQuantities(
	request model.SpreadRequest,
	rules *model.TradingRules,
	quantity decimal.Decimal,
	quoteToSpend decimal.Decimal,
	prices []decimal.Decimal,
) []decimal.Decimal {
	count := request.OrderCount
	portion := quantity.Div(decimal.NewFromInt(int64(count)))

	quantities := make([]decimal.Decimal, count)

	if request.Distribution == model.DistributionEqual {
		for i := 0; i < count; i++ {
			quantities[i] = c.Formatter.ToFixedDown(portion, rules.QuantityPrecision)
		}

		// a quote-denominated total splits evenly in quote terms, not in
		// base terms: each rung re-derives its quantity from its own price
		if quoteToSpend.IsPositive() {
			quoteTotal := decimal.Zero
			for i := 0; i < count; i++ {
				quoteTotal = quoteTotal.Add(prices[i].Mul(quantities[i]))
			}

			quotePortion := quoteTotal.Div(decimal.NewFromInt(int64(count)))
			for i := 0; i < count; i++ {
				quantities[i] = c.Formatter.ToFixedDown(quotePortion.Div(prices[i]), rules.QuantityPrecision)
			}
		}

		return quantities
	}

	shard := portion.Div(decimal.NewFromInt(int64(count + 1)))

	for i := 0; i < count; i++ {
		multiple := decimal.NewFromInt(int64(2 * (i + 1)))
		quantities[i] = c.Formatter.ToFixedDown(shard.Mul(multiple), rules.QuantityPrecision)
	}

	if c.isMirrored(request) {
		for i, j := 0, count-1; i < j; i, j = i+1, j-1 {
			quantities[i], quantities[j] = quantities[j], quantities[i]
		}
	}

	return quantities
}

func (c *SpreadCalculator) isMirrored(request model.SpreadRequest) bool {
	if request.IsSell() {
		return request.Distribution == model.DistributionAscending
	}

	return request.Distribution == model.DistributionDescending
}

// errorCorrect repairs the drift that per-rung round-down causes: the signed
// shortfall against the requested total is folded into a single designated
// rung, whose cost is then recomputed. A quote-denominated total corrects
// cost drift, a base-denominated one corrects quantity drift.
func (c *SpreadCalculator) errorCorrect(
	payload []model.OrderSpec,
	request model.SpreadRequest,
	rules *model.TradingRules,
	quantity decimal.Decimal,
	quoteToSpend decimal.Decimal,
) {
	line := c.correctionTarget(payload, request)

	if quoteToSpend.IsPositive() {
		totalCost := decimal.Zero
		for _, spec := range payload {
			totalCost = totalCost.Add(spec.Cost)
		}

		diff := quoteToSpend.Sub(totalCost)
		if diff.IsZero() {
			return
		}

		line.Quantity = c.Formatter.ToFixedDown(line.Quantity.Add(diff.Div(line.Price)), rules.QuantityPrecision)
		line.RecalculateCost(rules.QuotePrecision)

		return
	}

	totalQuantity := decimal.Zero
	for _, spec := range payload {
		totalQuantity = totalQuantity.Add(spec.Quantity)
	}

	diff := quantity.Sub(totalQuantity)
	if diff.IsZero() {
		return
	}

	line.Quantity = c.Formatter.ToFixedDown(line.Quantity.Add(diff), rules.QuantityPrecision)
	line.RecalculateCost(rules.QuotePrecision)
}

// correctionTarget is the edge rung carrying the largest nominal quantity:
// the last rung when the weighted ramp ends large, the first rung otherwise
// (equal mode included). Folding the drift into the largest rung keeps the
// relative distortion smallest.
func (c *SpreadCalculator) correctionTarget(payload []model.OrderSpec, request model.SpreadRequest) *model.OrderSpec {
	last := (request.IsSell() && request.Distribution == model.DistributionDescending) ||
		(!request.IsSell() && request.Distribution == model.DistributionAscending)

	if last {
		return &payload[len(payload)-1]
	}

	return &payload[0]
}

// applyIceberg sets the disclosed quantity of every rung: the true quantity
// split over the maximum part count the exchange permits, one part visible.
func (c *SpreadCalculator) applyIceberg(payload []model.OrderSpec, request model.SpreadRequest, rules *model.TradingRules) {
	if !request.Options.Iceberg {
		return
	}

	parts := decimal.NewFromInt(rules.IcebergParts - 1)

	for index := range payload {
		payload[index].IcebergQty = c.Formatter.ToFixedDown(
			payload[index].Quantity.Div(parts),
			rules.QuantityPrecision,
		)
	}
}
