package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

const BinanceExchangeFilterTypePrice = "PRICE_FILTER"
const BinanceExchangeFilterTypeLotSize = "LOT_SIZE"
const BinanceExchangeFilterTypeNotional = "NOTIONAL"
const BinanceExchangeFilterTypeMinNotional = "MIN_NOTIONAL"
const BinanceExchangeFilterTypeIcebergParts = "ICEBERG_PARTS"

type ExchangeFilter struct {
	FilterType  string           `json:"filterType"`
	MinPrice    *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice    *decimal.Decimal `json:"maxPrice,omitempty"`
	TickSize    *decimal.Decimal `json:"tickSize,omitempty"`
	MinQuantity *decimal.Decimal `json:"minQty,omitempty"`
	MaxQuantity *decimal.Decimal `json:"maxQty,omitempty"`
	StepSize    *decimal.Decimal `json:"stepSize,omitempty"`
	MinNotional *decimal.Decimal `json:"minNotional,omitempty"`
	Limit       *int64           `json:"limit,omitempty"`
}

type ExchangeSymbol struct {
	Symbol             string           `json:"symbol"`
	Status             string           `json:"status"`
	BaseAsset          string           `json:"baseAsset"`
	QuoteAsset         string           `json:"quoteAsset"`
	BaseAssetPrecision int32            `json:"baseAssetPrecision"`
	QuotePrecision     int32            `json:"quotePrecision"`
	IcebergAllowed     bool             `json:"icebergAllowed"`
	Filters            []ExchangeFilter `json:"filters"`
}

func (e *ExchangeSymbol) IsTrading() bool {
	return e.Status == "TRADING"
}

func (e *ExchangeSymbol) GetFilter(filterType string) *ExchangeFilter {
	for index, filter := range e.Filters {
		if filter.FilterType == filterType {
			return &e.Filters[index]
		}
	}

	return nil
}

type ExchangeInfo struct {
	Timezone   string           `json:"timezone"`
	ServerTime int64            `json:"serverTime"`
	Symbols    []ExchangeSymbol `json:"symbols"`
}

func (e *ExchangeInfo) GetSymbol(symbol string) *ExchangeSymbol {
	for index, exchangeSymbol := range e.Symbols {
		if exchangeSymbol.Symbol == strings.ToUpper(symbol) {
			return &e.Symbols[index]
		}
	}

	return nil
}

type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"msg"`
}

func (e *Error) Error() string {
	return e.GetMessage()
}

const BinanceErrorInvalidAPIKeyOrPermissions = "binance_error_invalid_api_key_or_permissions"
const BinanceErrorFilterNotional = "binance_error_filter_notional"

func (e *Error) GetMessage() string {
	if strings.Contains(e.Message, "Invalid API-key, IP, or permissions for action") {
		return BinanceErrorInvalidAPIKeyOrPermissions
	}

	if strings.Contains(e.Message, "Filter failure: NOTIONAL") {
		return BinanceErrorFilterNotional
	}

	return e.Message
}

func (e *Error) IsApiKeyOrPermissions() bool {
	return BinanceErrorInvalidAPIKeyOrPermissions == e.GetMessage()
}

func (e *Error) IsNotional() bool {
	return BinanceErrorFilterNotional == e.GetMessage()
}
