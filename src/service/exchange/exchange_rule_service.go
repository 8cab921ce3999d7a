package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-spread-bot/src/client"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
)

type TradingRulesInterface interface {
	GetTradingRules(symbol string) (*model.TradingRules, error)
	InvalidateTradingRules(symbol string)
}

// ExchangeRuleService resolves per-symbol trading filters into an immutable
// model.TradingRules snapshot, cached in Redis until invalidated or expired.
type ExchangeRuleService struct {
	Binance    client.ExchangeAPIInterface
	Formatter  *utils.Formatter
	RDB        *redis.Client
	Ctx        *context.Context
	CurrentBot *model.Bot
}

func (e *ExchangeRuleService) GetTradingRules(symbol string) (*model.TradingRules, error) {
	cached := e.RDB.Get(*e.Ctx, e.getRulesCacheKey(symbol)).Val()

	if len(cached) > 0 {
		var rules model.TradingRules
		err := json.Unmarshal([]byte(cached), &rules)
		if err == nil {
			return &rules, nil
		}
	}

	exchangeInfo, err := e.Binance.GetExchangeInfo(symbol)
	if err != nil {
		return nil, err
	}

	exchangeSymbol := exchangeInfo.GetSymbol(symbol)
	if exchangeSymbol == nil || !exchangeSymbol.IsTrading() {
		return nil, errors.New(fmt.Sprintf("[%s] Symbol is not trading on the exchange", symbol))
	}

	rules, err := e.buildRules(exchangeSymbol)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(rules)
	if err == nil {
		e.RDB.Set(*e.Ctx, e.getRulesCacheKey(symbol), string(encoded), time.Hour)
	}

	return rules, nil
}

func (e *ExchangeRuleService) InvalidateTradingRules(symbol string) {
	e.RDB.Del(*e.Ctx, e.getRulesCacheKey(symbol))
}

func (e *ExchangeRuleService) buildRules(exchangeSymbol *model.ExchangeSymbol) (*model.TradingRules, error) {
	priceFilter := exchangeSymbol.GetFilter(model.BinanceExchangeFilterTypePrice)
	lotSize := exchangeSymbol.GetFilter(model.BinanceExchangeFilterTypeLotSize)

	if priceFilter == nil || lotSize == nil {
		return nil, errors.New(fmt.Sprintf("[%s] Price or lot size filter is missing", exchangeSymbol.Symbol))
	}

	notional := exchangeSymbol.GetFilter(model.BinanceExchangeFilterTypeNotional)
	if notional == nil {
		notional = exchangeSymbol.GetFilter(model.BinanceExchangeFilterTypeMinNotional)
	}

	rules := model.TradingRules{
		Symbol:             exchangeSymbol.Symbol,
		BaseAsset:          exchangeSymbol.BaseAsset,
		QuoteAsset:         exchangeSymbol.QuoteAsset,
		BaseAssetPrecision: exchangeSymbol.BaseAssetPrecision,
		QuotePrecision:     exchangeSymbol.QuotePrecision,
		PricePrecision:     e.Formatter.PrecisionFromStep(*priceFilter.TickSize),
		QuantityPrecision:  e.Formatter.PrecisionFromStep(*lotSize.StepSize),
		MinPrice:           *priceFilter.MinPrice,
		MaxPrice:           *priceFilter.MaxPrice,
		PriceTick:          *priceFilter.TickSize,
		MinQuantity:        *lotSize.MinQuantity,
		MaxQuantity:        *lotSize.MaxQuantity,
		QuantityStep:       *lotSize.StepSize,
		IcebergAllowed:     exchangeSymbol.IcebergAllowed,
	}

	if notional != nil && notional.MinNotional != nil {
		rules.MinNotional = *notional.MinNotional
	}

	icebergParts := exchangeSymbol.GetFilter(model.BinanceExchangeFilterTypeIcebergParts)
	if icebergParts != nil && icebergParts.Limit != nil {
		rules.IcebergParts = *icebergParts.Limit
	}

	if rules.IcebergParts < 2 {
		rules.IcebergAllowed = false
	}

	return &rules, nil
}

func (e *ExchangeRuleService) getRulesCacheKey(symbol string) string {
	return fmt.Sprintf("trading-rules-%s-bot-%d", symbol, e.CurrentBot.Id)
}
