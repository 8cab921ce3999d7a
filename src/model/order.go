package model

import (
	"github.com/shopspring/decimal"
)

const OrderTypeLimit = "LIMIT"
const OrderTypeLimitMaker = "LIMIT_MAKER"
const OrderTypeStopLossLimit = "STOP_LOSS_LIMIT"

const TimeInForceGTC = "GTC"

// OrderTicket is the exact request body submitted to the exchange.
// Maker-only orders omit timeInForce: LIMIT_MAKER is rejected immediately
// when it would cross the book, so a duration makes no sense for it.
type OrderTicket struct {
	Symbol           string `json:"symbol"`
	Side             string `json:"side"`
	Type             string `json:"type"`
	TimeInForce      string `json:"timeInForce,omitempty"`
	Quantity         string `json:"quantity"`
	Price            string `json:"price"`
	IcebergQty       string `json:"icebergQty,omitempty"`
	NewClientOrderId string `json:"newClientOrderId"`
}

type BinanceOrder struct {
	OrderId       int64           `json:"orderId"`
	Symbol        string          `json:"symbol"`
	ClientOrderId string          `json:"clientOrderId"`
	Price         decimal.Decimal `json:"price"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	IcebergQty    decimal.Decimal `json:"icebergQty"`
	Status        string          `json:"status"`
	Type          string          `json:"type"`
	Side          string          `json:"side"`
	TransactTime  int64           `json:"transactTime"`
}

func (o *BinanceOrder) IsSellStopLoss() bool {
	return o.Type == OrderTypeStopLossLimit && o.Side == SideSell
}

// OrderHistory keeps every submission attempt, successful or not.
type OrderHistory struct {
	Id        int64         `json:"id"`
	BotId     int64         `json:"botId"`
	Ticket    OrderTicket   `json:"ticket"`
	Result    *BinanceOrder `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	Success   bool          `json:"success"`
	CreatedAt string        `json:"createdAt"`
}

type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

type AccountStatus struct {
	Balances []Balance `json:"balances"`
}
