package tests

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/service/exchange"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
)

func newOrderExecutor(
	binance *ExchangeAPIMock,
	orderRepository *OrderHistoryStorageMock,
	balanceService *BalanceServiceMock,
	ruleService *TradingRulesMock,
	timeService *TimeServiceMock,
) exchange.OrderExecutor {
	return exchange.OrderExecutor{
		CurrentBot: &model.Bot{
			Id:      999,
			BotUuid: "e7c35a17-4f29-4b4a-a1b6-4b0b6e173c1f",
		},
		Binance:         binance,
		OrderRepository: orderRepository,
		BalanceService:  balanceService,
		RuleService:     ruleService,
		SpreadCalculator: &exchange.SpreadCalculator{
			Formatter: &utils.Formatter{},
		},
		TimeService: timeService,
	}
}

func TestExecuteContinuesAfterRejectedRung(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeAPIMock)
	orderRepository := new(OrderHistoryStorageMock)
	balanceService := new(BalanceServiceMock)
	timeService := new(TimeServiceMock)

	executor := newOrderExecutor(binance, orderRepository, balanceService, new(TradingRulesMock), timeService)

	request := model.SpreadRequest{
		Side:  "SELL",
		Base:  "ETH",
		Quote: "USDT",
	}

	payload := []model.OrderSpec{
		{Number: 1, Price: decimal.NewFromInt(110), Quantity: decimal.NewFromInt(1)},
		{Number: 2, Price: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(2)},
	}

	timeService.On("GetNowDateTimeString").Return("2024-03-01 10:00:00")

	rejection := &model.Error{
		Code:    -2010,
		Message: "Account has insufficient balance for requested action.",
	}

	binance.On("CreateOrder", mock.MatchedBy(func(ticket model.OrderTicket) bool {
		return ticket.Price == "110"
	})).Return(model.BinanceOrder{}, rejection)

	placed := model.BinanceOrder{
		OrderId: 12345,
		Symbol:  "ETHUSDT",
		Status:  "NEW",
	}
	binance.On("CreateOrder", mock.MatchedBy(func(ticket model.OrderTicket) bool {
		return ticket.Price == "100"
	})).Return(placed, nil)

	orderRepository.On("RecordOrderHistory", mock.Anything).Return(1, nil)
	balanceService.On("InvalidateBalanceCache", "ETH").Once()
	balanceService.On("InvalidateBalanceCache", "USDT").Once()

	history := executor.Execute(request, payload)

	assertion.Len(history, 2)

	assertion.False(history[0].Success)
	assertion.Equal("Account has insufficient balance for requested action.", history[0].Error)
	assertion.Nil(history[0].Result)

	assertion.True(history[1].Success)
	assertion.Equal(int64(12345), history[1].Result.OrderId)
	assertion.Equal(int64(999), history[1].BotId)

	orderRepository.AssertNumberOfCalls(t, "RecordOrderHistory", 2)
	balanceService.AssertExpectations(t)
}

func TestExecuteBuildsMakerOnlyIcebergTicket(t *testing.T) {
	assertion := assert.New(t)

	binance := new(ExchangeAPIMock)
	orderRepository := new(OrderHistoryStorageMock)
	balanceService := new(BalanceServiceMock)
	timeService := new(TimeServiceMock)

	executor := newOrderExecutor(binance, orderRepository, balanceService, new(TradingRulesMock), timeService)

	request := model.SpreadRequest{
		Side:  "BUY",
		Base:  "ETH",
		Quote: "USDT",
		Options: model.SpreadOptions{
			MakerOnly: true,
			Iceberg:   true,
		},
	}

	payload := []model.OrderSpec{
		{
			Number:     1,
			Price:      decimal.NewFromInt(100),
			Quantity:   decimal.NewFromInt(9),
			IcebergQty: decimal.NewFromInt(1),
		},
	}

	timeService.On("GetNowDateTimeString").Return("2024-03-01 10:00:00")
	orderRepository.On("RecordOrderHistory", mock.Anything).Return(1, nil)
	balanceService.On("InvalidateBalanceCache", mock.Anything)

	binance.On("CreateOrder", mock.MatchedBy(func(ticket model.OrderTicket) bool {
		return ticket.Type == "LIMIT_MAKER" &&
			ticket.TimeInForce == "" &&
			ticket.IcebergQty == "1" &&
			len(ticket.NewClientOrderId) > 0
	})).Return(model.BinanceOrder{OrderId: 1}, nil)

	history := executor.Execute(request, payload)

	assertion.Len(history, 1)
	assertion.True(history[0].Success)
	binance.AssertExpectations(t)
}

func TestExecuteTriggerCancelsStopOrders(t *testing.T) {
	binance := new(ExchangeAPIMock)
	orderRepository := new(OrderHistoryStorageMock)
	balanceService := new(BalanceServiceMock)
	timeService := new(TimeServiceMock)

	executor := newOrderExecutor(binance, orderRepository, balanceService, new(TradingRulesMock), timeService)

	order := model.TriggerOrder{
		Id:           7,
		Symbol:       "ETHUSDT",
		Direction:    "<",
		TriggerPrice: decimal.NewFromInt(95),
		Payload: model.TriggerPayload{
			{Number: 1, Price: decimal.NewFromInt(94), Quantity: decimal.NewFromInt(1)},
		},
		Request: model.SpreadRequest{
			Side:  "SELL",
			Base:  "ETH",
			Quote: "USDT",
			Options: model.SpreadOptions{
				CancelStops: true,
			},
		},
	}

	openOrders := []model.BinanceOrder{
		{OrderId: 11, Type: "STOP_LOSS_LIMIT", Side: "SELL"},
		{OrderId: 12, Type: "LIMIT", Side: "SELL"},
		{OrderId: 13, Type: "STOP_LOSS_LIMIT", Side: "BUY"},
	}

	binance.On("GetOpenOrders", "ETHUSDT").Return(openOrders, nil)
	binance.On("CancelOrder", "ETHUSDT", int64(11)).Return(nil).Once()
	binance.On("CreateOrder", mock.Anything).Return(model.BinanceOrder{OrderId: 1}, nil)

	timeService.On("GetNowDateTimeString").Return("2024-03-01 10:00:00")
	orderRepository.On("RecordOrderHistory", mock.Anything).Return(1, nil)
	balanceService.On("InvalidateBalanceCache", mock.Anything)

	executor.ExecuteTrigger(order)

	// only the sell stop is cancelled
	binance.AssertNumberOfCalls(t, "CancelOrder", 1)
	binance.AssertExpectations(t)
}

func TestExecuteTriggerResolvesDeferredQuantity(t *testing.T) {
	binance := new(ExchangeAPIMock)
	orderRepository := new(OrderHistoryStorageMock)
	balanceService := new(BalanceServiceMock)
	ruleService := new(TradingRulesMock)
	timeService := new(TimeServiceMock)

	executor := newOrderExecutor(binance, orderRepository, balanceService, ruleService, timeService)

	order := model.TriggerOrder{
		Id:           8,
		Symbol:       "ETHUSDT",
		Direction:    ">",
		TriggerPrice: decimal.NewFromInt(120),
		Payload: model.TriggerPayload{
			// captured at creation time with a stale balance
			{Number: 1, Price: decimal.NewFromInt(121), Quantity: decimal.NewFromInt(1)},
		},
		Request: model.SpreadRequest{
			Side:           "SELL",
			Base:           "ETH",
			Quote:          "USDT",
			Price:          decimal.NewFromInt(121),
			OrderCount:     1,
			QuantityIntent: "percent",
			QuantityValue:  decimal.NewFromInt(100),
			Distribution:   "equal",
			Options: model.SpreadOptions{
				DeferPercentage: true,
			},
		},
	}

	ruleService.On("GetTradingRules", "ETHUSDT").Return(newRules(2), nil)

	balanceService.On("InvalidateBalanceCache", "ETH")
	balanceService.On("InvalidateBalanceCache", "USDT")
	balanceService.On("GetAssetBalance", "ETH", false).Return(decimal.NewFromInt(4), nil)
	balanceService.On("GetAssetBalance", "USDT", false).Return(decimal.Zero, nil)

	timeService.On("GetNowDateTimeString").Return("2024-03-01 10:00:00")
	orderRepository.On("RecordOrderHistory", mock.Anything).Return(1, nil)

	// the quantity is re-resolved from the balance at fire time, not the
	// one captured when the trigger was created
	binance.On("CreateOrder", mock.MatchedBy(func(ticket model.OrderTicket) bool {
		return ticket.Quantity == "4" && ticket.Price == "121"
	})).Return(model.BinanceOrder{OrderId: 2}, nil)

	executor.ExecuteTrigger(order)

	binance.AssertExpectations(t)
	ruleService.AssertExpectations(t)
}
