package tests

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gitlab.com/open-soft/go-spread-bot/src/model"
)

type ExchangeAPIMock struct {
	mock.Mock
}

func (m *ExchangeAPIMock) GetExchangeInfo(symbol string) (*model.ExchangeInfo, error) {
	args := m.Called(symbol)
	return args.Get(0).(*model.ExchangeInfo), args.Error(1)
}
func (m *ExchangeAPIMock) TickerPrice(symbol string) (decimal.Decimal, error) {
	args := m.Called(symbol)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *ExchangeAPIMock) GetAccountStatus() (*model.AccountStatus, error) {
	args := m.Called()
	return args.Get(0).(*model.AccountStatus), args.Error(1)
}
func (m *ExchangeAPIMock) GetOpenOrders(symbol string) ([]model.BinanceOrder, error) {
	args := m.Called(symbol)
	return args.Get(0).([]model.BinanceOrder), args.Error(1)
}
func (m *ExchangeAPIMock) TestOrder(ticket model.OrderTicket) error {
	args := m.Called(ticket)
	return args.Error(0)
}
func (m *ExchangeAPIMock) CreateOrder(ticket model.OrderTicket) (model.BinanceOrder, error) {
	args := m.Called(ticket)
	return args.Get(0).(model.BinanceOrder), args.Error(1)
}
func (m *ExchangeAPIMock) CancelOrder(symbol string, orderId int64) error {
	args := m.Called(symbol, orderId)
	return args.Error(0)
}

type TriggerStorageMock struct {
	mock.Mock
}

func (m *TriggerStorageMock) Create(order model.TriggerOrder) (*int64, error) {
	args := m.Called(order)
	id := int64(args.Int(0))
	return &id, args.Error(1)
}
func (m *TriggerStorageMock) Remove(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *TriggerStorageMock) GetTriggerOrder(id int64) (model.TriggerOrder, error) {
	args := m.Called(id)
	return args.Get(0).(model.TriggerOrder), args.Error(1)
}
func (m *TriggerStorageMock) GetTriggerOrders(symbol string) []model.TriggerOrder {
	args := m.Called(symbol)
	return args.Get(0).([]model.TriggerOrder)
}
func (m *TriggerStorageMock) GetAllTriggerOrders() []model.TriggerOrder {
	args := m.Called()
	return args.Get(0).([]model.TriggerOrder)
}
func (m *TriggerStorageMock) GetTriggerPairs() []string {
	args := m.Called()
	return args.Get(0).([]string)
}
func (m *TriggerStorageMock) UpdateTriggerState(ticker model.MiniTicker) {
	m.Called(ticker)
}

type OrderHistoryStorageMock struct {
	mock.Mock
}

func (m *OrderHistoryStorageMock) RecordOrderHistory(entry model.OrderHistory) (*int64, error) {
	args := m.Called(entry)
	id := int64(args.Int(0))
	return &id, args.Error(1)
}
func (m *OrderHistoryStorageMock) GetOrderHistory() []model.OrderHistory {
	args := m.Called()
	return args.Get(0).([]model.OrderHistory)
}

type BalanceServiceMock struct {
	mock.Mock
}

func (m *BalanceServiceMock) GetAssetBalance(asset string, cache bool) (decimal.Decimal, error) {
	args := m.Called(asset, cache)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *BalanceServiceMock) InvalidateBalanceCache(asset string) {
	m.Called(asset)
}

type TradingRulesMock struct {
	mock.Mock
}

func (m *TradingRulesMock) GetTradingRules(symbol string) (*model.TradingRules, error) {
	args := m.Called(symbol)
	return args.Get(0).(*model.TradingRules), args.Error(1)
}
func (m *TradingRulesMock) InvalidateTradingRules(symbol string) {
	m.Called(symbol)
}

type TriggerExecutorMock struct {
	mock.Mock
}

func (m *TriggerExecutorMock) ExecuteTrigger(order model.TriggerOrder) {
	m.Called(order)
}

type OrderExecutorMock struct {
	mock.Mock
}

func (m *OrderExecutorMock) Execute(request model.SpreadRequest, payload []model.OrderSpec) []model.OrderHistory {
	args := m.Called(request, payload)
	return args.Get(0).([]model.OrderHistory)
}

type OrderValidatorMock struct {
	mock.Mock
}

func (m *OrderValidatorMock) Validate(payload []model.OrderSpec, request model.SpreadRequest, rules *model.TradingRules) bool {
	args := m.Called(payload, request, rules)
	return args.Bool(0)
}

type TickerStreamMock struct {
	mock.Mock
}

func (m *TickerStreamMock) SubscribeMiniTicker(symbol string, events chan<- model.MiniTicker) {
	m.Called(symbol, events)
}

type TimeServiceMock struct {
	mock.Mock
}

func (m *TimeServiceMock) WaitSeconds(seconds int64) {
	m.Called(seconds)
}
func (m *TimeServiceMock) GetNowUnix() int64 {
	args := m.Called()
	return int64(args.Int(0))
}
func (m *TimeServiceMock) GetNowDateTimeString() string {
	args := m.Called()
	return args.String(0)
}
