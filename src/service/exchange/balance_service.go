package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gitlab.com/open-soft/go-spread-bot/src/client"
	"gitlab.com/open-soft/go-spread-bot/src/model"
)

type BalanceServiceInterface interface {
	GetAssetBalance(asset string, cache bool) (decimal.Decimal, error)
	InvalidateBalanceCache(asset string)
}

type BalanceService struct {
	RDB        *redis.Client
	Ctx        *context.Context
	CurrentBot *model.Bot
	Binance    client.ExchangeAPIInterface
}

func (b *BalanceService) InvalidateBalanceCache(asset string) {
	b.RDB.Del(*b.Ctx, b.getBalanceCacheKey(asset))
}

// GetAssetBalance returns the free amount of the asset. Locked funds are
// excluded: they sit in open orders and cannot back a new one.
func (b *BalanceService) GetAssetBalance(asset string, cache bool) (decimal.Decimal, error) {
	cached := b.RDB.Get(*b.Ctx, b.getBalanceCacheKey(asset)).Val()

	if len(cached) > 0 && cache {
		var balance model.Balance
		err := json.Unmarshal([]byte(cached), &balance)

		if err == nil {
			return balance.Free, nil
		}
	}

	account, err := b.Binance.GetAccountStatus()
	if err != nil {
		return decimal.Zero, err
	}

	for _, balance := range account.Balances {
		if balance.Asset != asset {
			continue
		}

		encoded, err := json.Marshal(balance)
		if err == nil {
			b.RDB.Set(*b.Ctx, b.getBalanceCacheKey(asset), string(encoded), time.Minute)
		}

		return balance.Free, nil
	}

	return decimal.Zero, errors.New(fmt.Sprintf("Balance of %s is not found", asset))
}

func (b *BalanceService) getBalanceCacheKey(asset string) string {
	return fmt.Sprintf("balance-%s-bot-%d", asset, b.CurrentBot.Id)
}
