package tests

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/service/exchange"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
)

func newCalculator() *exchange.SpreadCalculator {
	return &exchange.SpreadCalculator{
		Formatter: &utils.Formatter{},
	}
}

func newRules(quantityPrecision int32) *model.TradingRules {
	return &model.TradingRules{
		Symbol:            "ETHUSDT",
		BaseAsset:         "ETH",
		QuoteAsset:        "USDT",
		QuotePrecision:    2,
		PricePrecision:    2,
		QuantityPrecision: quantityPrecision,
		MinPrice:          decimal.RequireFromString("0.01"),
		PriceTick:         decimal.RequireFromString("0.01"),
		MinQuantity:       decimal.RequireFromString("0.01"),
		QuantityStep:      decimal.RequireFromString("0.01"),
		MinNotional:       decimal.RequireFromString("10.00"),
		IcebergAllowed:    true,
		IcebergParts:      10,
	}
}

func TestCalculateEqualSellSpread(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "SELL",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(100),
		MaxPrice:       decimal.NewFromInt(110),
		OrderCount:     3,
		QuantityIntent: "base",
		QuantityValue:  decimal.NewFromInt(9),
		Distribution:   "equal",
	}

	payload := calculator.Calculate(request, newRules(2), decimal.NewFromInt(9), decimal.Zero)

	assertion.Len(payload, 3)

	// rung #1 sits at the highest price
	assertion.Equal("110", payload[0].Price.String())
	assertion.Equal("105", payload[1].Price.String())
	assertion.Equal("100", payload[2].Price.String())

	assertion.Equal("3", payload[0].Quantity.String())
	assertion.Equal("3", payload[1].Quantity.String())
	assertion.Equal("3", payload[2].Quantity.String())

	assertion.Equal("330", payload[0].Cost.String())
	assertion.Equal("315", payload[1].Cost.String())
	assertion.Equal("300", payload[2].Cost.String())
}

func TestCalculateWeightedAscendingBuy(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "BUY",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(100),
		MaxPrice:       decimal.NewFromInt(106),
		OrderCount:     4,
		QuantityIntent: "base",
		QuantityValue:  decimal.NewFromInt(10),
		Distribution:   "asc",
	}

	payload := calculator.Calculate(request, newRules(2), decimal.NewFromInt(10), decimal.Zero)

	assertion.Len(payload, 4)
	assertion.Equal("106", payload[0].Price.String())
	assertion.Equal("104", payload[1].Price.String())
	assertion.Equal("102", payload[2].Price.String())
	assertion.Equal("100", payload[3].Price.String())

	// quantities ramp away from the current price: 1x, 2x, 3x, 4x
	assertion.Equal("1", payload[0].Quantity.String())
	assertion.Equal("2", payload[1].Quantity.String())
	assertion.Equal("3", payload[2].Quantity.String())
	assertion.Equal("4", payload[3].Quantity.String())
}

func TestCalculateWeightedDescendingBuyIsMirrored(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "BUY",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(100),
		MaxPrice:       decimal.NewFromInt(106),
		OrderCount:     4,
		QuantityIntent: "base",
		QuantityValue:  decimal.NewFromInt(10),
		Distribution:   "desc",
	}

	payload := calculator.Calculate(request, newRules(2), decimal.NewFromInt(10), decimal.Zero)

	assertion.Equal("4", payload[0].Quantity.String())
	assertion.Equal("3", payload[1].Quantity.String())
	assertion.Equal("2", payload[2].Quantity.String())
	assertion.Equal("1", payload[3].Quantity.String())
}

func TestCalculateCorrectsBaseQuantityDrift(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "SELL",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(100),
		MaxPrice:       decimal.NewFromInt(110),
		OrderCount:     3,
		QuantityIntent: "base",
		QuantityValue:  decimal.NewFromInt(10),
		Distribution:   "asc",
	}

	payload := calculator.Calculate(request, newRules(2), decimal.NewFromInt(10), decimal.Zero)

	// round-down drift lands on the largest rung, the total stays exact
	assertion.Equal("5.01", payload[0].Quantity.String())
	assertion.Equal("3.33", payload[1].Quantity.String())
	assertion.Equal("1.66", payload[2].Quantity.String())

	total := decimal.Zero
	for _, spec := range payload {
		total = total.Add(spec.Quantity)
	}
	assertion.Equal("10", total.String())
}

func TestCalculateCorrectsQuoteCostDrift(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "BUY",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(99),
		MaxPrice:       decimal.NewFromInt(101),
		OrderCount:     3,
		QuantityIntent: "quote",
		QuantityValue:  decimal.NewFromInt(300),
		Distribution:   "equal",
	}

	rules := newRules(8)
	quantity, quoteToSpend := calculator.ResolveQuantity(request, rules, decimal.Zero, decimal.Zero)

	assertion.Equal("3", quantity.String())
	assertion.Equal("300", quoteToSpend.String())

	payload := calculator.Calculate(request, rules, quantity, quoteToSpend)

	totalCost := decimal.Zero
	for _, spec := range payload {
		totalCost = totalCost.Add(spec.Cost)
	}

	assertion.Equal("300", totalCost.String())
}

func TestCalculatePriceEndpointsAreExact(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "SELL",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(100),
		MaxPrice:       decimal.NewFromInt(110),
		OrderCount:     4,
		QuantityIntent: "base",
		QuantityValue:  decimal.NewFromInt(8),
		Distribution:   "equal",
	}

	payload := calculator.Calculate(request, newRules(2), decimal.NewFromInt(8), decimal.Zero)

	assertion.Equal("110", payload[0].Price.String())
	assertion.Equal("100", payload[3].Price.String())

	for index := 1; index < len(payload); index++ {
		assertion.True(payload[index].Price.LessThan(payload[index-1].Price))
	}
}

func TestCalculateSingleOrder(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "BUY",
		Base:           "ETH",
		Quote:          "USDT",
		Price:          decimal.RequireFromString("123.456"),
		OrderCount:     1,
		QuantityIntent: "base",
		QuantityValue:  decimal.NewFromInt(2),
		Distribution:   "equal",
	}

	payload := calculator.Calculate(request, newRules(2), decimal.NewFromInt(2), decimal.Zero)

	assertion.Len(payload, 1)
	assertion.Equal(1, payload[0].Number)
	assertion.Equal("123.45", payload[0].Price.String())
	assertion.Equal("2", payload[0].Quantity.String())
	assertion.Equal("246.9", payload[0].Cost.String())
}

func TestCalculateAppliesIcebergQuantity(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "SELL",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(100),
		MaxPrice:       decimal.NewFromInt(110),
		OrderCount:     3,
		QuantityIntent: "base",
		QuantityValue:  decimal.NewFromInt(27),
		Distribution:   "equal",
		Options: model.SpreadOptions{
			Iceberg: true,
		},
	}

	payload := calculator.Calculate(request, newRules(2), decimal.NewFromInt(27), decimal.Zero)

	for _, spec := range payload {
		assertion.Equal("9", spec.Quantity.String())
		assertion.Equal("1", spec.IcebergQty.String())
	}
}

func TestResolveQuantityPercentOfBaseBalance(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "SELL",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(100),
		MaxPrice:       decimal.NewFromInt(110),
		OrderCount:     2,
		QuantityIntent: "percent",
		QuantityValue:  decimal.NewFromInt(50),
		Distribution:   "equal",
	}

	quantity, quoteToSpend := calculator.ResolveQuantity(
		request,
		newRules(2),
		decimal.RequireFromString("7.777777"),
		decimal.Zero,
	)

	assertion.Equal("3.88", quantity.String())
	assertion.True(quoteToSpend.IsZero())
}

func TestResolveQuantityPercentOfQuoteBalanceOnBuy(t *testing.T) {
	assertion := assert.New(t)
	calculator := newCalculator()

	request := model.SpreadRequest{
		Side:           "BUY",
		Base:           "ETH",
		Quote:          "USDT",
		MinPrice:       decimal.NewFromInt(90),
		MaxPrice:       decimal.NewFromInt(110),
		OrderCount:     2,
		QuantityIntent: "percent",
		QuantityValue:  decimal.NewFromInt(25),
		Distribution:   "equal",
	}

	// reference price is the middle of the range: (90 + 110) / 2 = 100
	quantity, quoteToSpend := calculator.ResolveQuantity(
		request,
		newRules(2),
		decimal.Zero,
		decimal.NewFromInt(4000),
	)

	assertion.Equal("10", quantity.String())
	assertion.Equal("1000", quoteToSpend.String())
}
