package model

import "github.com/shopspring/decimal"

type MiniTicker struct {
	EventTime int64           `json:"E"`
	Symbol    string          `json:"s"`
	Close     decimal.Decimal `json:"c"`
}

type SocketStreamsRequest struct {
	Id     int64    `json:"id"`
	Method string   `json:"method"`
	Params []string `json:"params"`
}
