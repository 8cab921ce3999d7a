package tests

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/validator"
)

func TestValidateAnnotatesEveryRung(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeAPIMock)
	orderValidator := validator.OrderValidator{
		Binance: binance,
	}

	request := model.SpreadRequest{
		Side:  "SELL",
		Base:  "ETH",
		Quote: "USDT",
	}

	payload := []model.OrderSpec{
		// notional too small: 100 * 0.05 = 5 < 10
		{Number: 1, Price: decimal.NewFromInt(100), Quantity: decimal.RequireFromString("0.05")},
		// price above the filter maximum
		{Number: 2, Price: decimal.NewFromInt(2000), Quantity: decimal.NewFromInt(1)},
		// clean
		{Number: 3, Price: decimal.NewFromInt(105), Quantity: decimal.NewFromInt(1)},
	}

	rules := newRules(2)
	rules.MaxPrice = decimal.NewFromInt(1000)

	binance.On("TestOrder", mock.Anything).Return(nil)

	valid := orderValidator.Validate(payload, request, rules)

	assertion.False(valid)
	assertion.Contains(payload[0].Validation, "Cost too small")
	assertion.Contains(payload[1].Validation, "Price out of range")
	assertion.Equal("OK", payload[2].Validation)

	// only the clean rung reaches the exchange dry-run
	binance.AssertNumberOfCalls(t, "TestOrder", 1)
}

func TestValidateDryRunRejectionMarksRung(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeAPIMock)
	orderValidator := validator.OrderValidator{
		Binance: binance,
	}

	request := model.SpreadRequest{
		Side:  "BUY",
		Base:  "ETH",
		Quote: "USDT",
	}

	payload := []model.OrderSpec{
		{Number: 1, Price: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(1)},
	}

	binance.On("TestOrder", mock.Anything).Return(errors.New("Account has insufficient balance"))

	valid := orderValidator.Validate(payload, request, rulesWithoutBounds())

	assertion.False(valid)
	assertion.Equal("Account has insufficient balance", payload[0].Validation)
}

func TestValidateAllRungsPass(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeAPIMock)
	orderValidator := validator.OrderValidator{
		Binance: binance,
	}

	request := model.SpreadRequest{
		Side:  "SELL",
		Base:  "ETH",
		Quote: "USDT",
		Options: model.SpreadOptions{
			MakerOnly: true,
		},
	}

	payload := []model.OrderSpec{
		{Number: 1, Price: decimal.NewFromInt(110), Quantity: decimal.NewFromInt(1)},
		{Number: 2, Price: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(1)},
	}

	binance.On("TestOrder", mock.MatchedBy(func(ticket model.OrderTicket) bool {
		return ticket.Type == "LIMIT_MAKER" && ticket.TimeInForce == "" && ticket.Symbol == "ETHUSDT"
	})).Return(nil)

	valid := orderValidator.Validate(payload, request, rulesWithoutBounds())

	assertion.True(valid)
	assertion.Equal("OK", payload[0].Validation)
	assertion.Equal("OK", payload[1].Validation)
}

func rulesWithoutBounds() *model.TradingRules {
	rules := newRules(2)
	rules.MinNotional = decimal.Zero
	rules.MinPrice = decimal.Zero
	rules.MinQuantity = decimal.Zero

	return rules
}
