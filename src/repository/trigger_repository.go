package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
)

type TriggerStorageInterface interface {
	Create(order model.TriggerOrder) (*int64, error)
	Remove(id int64) error
	GetTriggerOrder(id int64) (model.TriggerOrder, error)
	GetTriggerOrders(symbol string) []model.TriggerOrder
	GetAllTriggerOrders() []model.TriggerOrder
	GetTriggerPairs() []string
	UpdateTriggerState(ticker model.MiniTicker)
}

type TriggerRepository struct {
	DB         *sql.DB
	RDB        *redis.Client
	Ctx        *context.Context
	CurrentBot *model.Bot
	Formatter  *utils.Formatter
}

func (repo *TriggerRepository) Create(order model.TriggerOrder) (*int64, error) {
	res, err := repo.DB.Exec(`
		INSERT INTO trigger_orders SET
			bot_id = ?,
			symbol = ?,
			direction = ?,
			trigger_price = ?,
			payload = ?,
			request = ?,
			current_price = ?,
			distance = ?,
			created_at = NOW()
	`,
		repo.CurrentBot.Id,
		order.Symbol,
		order.Direction,
		order.TriggerPrice.String(),
		order.Payload,
		order.Request,
		order.State.CurrentPrice.String(),
		order.State.Distance,
	)

	if err != nil {
		log.Println(err)
		return nil, err
	}

	lastId, err := res.LastInsertId()
	if err != nil {
		log.Println(err)
		return nil, err
	}

	repo.invalidatePairCache()

	return &lastId, nil
}

func (repo *TriggerRepository) Remove(id int64) error {
	res, err := repo.DB.Exec(
		`DELETE FROM trigger_orders WHERE id = ? AND bot_id = ?`,
		id,
		repo.CurrentBot.Id,
	)

	if err != nil {
		log.Println(err)
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("trigger order [%d] is not found", id)
	}

	repo.invalidatePairCache()

	return nil
}

func (repo *TriggerRepository) GetTriggerOrder(id int64) (model.TriggerOrder, error) {
	var order model.TriggerOrder

	err := repo.DB.QueryRow(`
		SELECT
			t.id as Id,
			t.bot_id as BotId,
			t.symbol as Symbol,
			t.direction as Direction,
			t.trigger_price as TriggerPrice,
			t.payload as Payload,
			t.request as Request,
			t.current_price as CurrentPrice,
			t.distance as Distance,
			t.created_at as CreatedAt
		FROM trigger_orders t
		WHERE t.id = ? AND t.bot_id = ?`,
		id,
		repo.CurrentBot.Id,
	).Scan(
		&order.Id,
		&order.BotId,
		&order.Symbol,
		&order.Direction,
		&order.TriggerPrice,
		&order.Payload,
		&order.Request,
		&order.State.CurrentPrice,
		&order.State.Distance,
		&order.CreatedAt,
	)

	if err != nil {
		return order, err
	}

	return order, nil
}

// GetTriggerOrders always reads the database, never a snapshot: triggers are
// added and removed while a pair is being watched, and each tick has to see
// the pending set as it is right now.
func (repo *TriggerRepository) GetTriggerOrders(symbol string) []model.TriggerOrder {
	res, err := repo.DB.Query(`
		SELECT
			t.id as Id,
			t.bot_id as BotId,
			t.symbol as Symbol,
			t.direction as Direction,
			t.trigger_price as TriggerPrice,
			t.payload as Payload,
			t.request as Request,
			t.current_price as CurrentPrice,
			t.distance as Distance,
			t.created_at as CreatedAt
		FROM trigger_orders t
		WHERE t.symbol = ? AND t.bot_id = ?
		ORDER BY t.id ASC`,
		symbol,
		repo.CurrentBot.Id,
	)

	orders := make([]model.TriggerOrder, 0)

	if err != nil {
		log.Println(err)
		return orders
	}

	defer res.Close()

	for res.Next() {
		var order model.TriggerOrder
		err := res.Scan(
			&order.Id,
			&order.BotId,
			&order.Symbol,
			&order.Direction,
			&order.TriggerPrice,
			&order.Payload,
			&order.Request,
			&order.State.CurrentPrice,
			&order.State.Distance,
			&order.CreatedAt,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		orders = append(orders, order)
	}

	return orders
}

func (repo *TriggerRepository) GetAllTriggerOrders() []model.TriggerOrder {
	res, err := repo.DB.Query(`
		SELECT
			t.id as Id,
			t.bot_id as BotId,
			t.symbol as Symbol,
			t.direction as Direction,
			t.trigger_price as TriggerPrice,
			t.payload as Payload,
			t.request as Request,
			t.current_price as CurrentPrice,
			t.distance as Distance,
			t.created_at as CreatedAt
		FROM trigger_orders t
		WHERE t.bot_id = ?
		ORDER BY t.id ASC`,
		repo.CurrentBot.Id,
	)

	orders := make([]model.TriggerOrder, 0)

	if err != nil {
		log.Println(err)
		return orders
	}

	defer res.Close()

	for res.Next() {
		var order model.TriggerOrder
		err := res.Scan(
			&order.Id,
			&order.BotId,
			&order.Symbol,
			&order.Direction,
			&order.TriggerPrice,
			&order.Payload,
			&order.Request,
			&order.State.CurrentPrice,
			&order.State.Distance,
			&order.CreatedAt,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		orders = append(orders, order)
	}

	return orders
}

func (repo *TriggerRepository) GetTriggerPairs() []string {
	cached := repo.RDB.Get(*repo.Ctx, repo.getPairCacheKey()).Val()

	if len(cached) > 0 {
		var pairs []string
		err := json.Unmarshal([]byte(cached), &pairs)
		if err == nil {
			return pairs
		}
	}

	res, err := repo.DB.Query(
		`SELECT DISTINCT t.symbol FROM trigger_orders t WHERE t.bot_id = ?`,
		repo.CurrentBot.Id,
	)

	pairs := make([]string, 0)

	if err != nil {
		log.Println(err)
		return pairs
	}

	defer res.Close()

	for res.Next() {
		var symbol string
		if err := res.Scan(&symbol); err != nil {
			log.Println(err)
			continue
		}

		pairs = append(pairs, symbol)
	}

	encoded, err := json.Marshal(pairs)
	if err == nil {
		repo.RDB.Set(*repo.Ctx, repo.getPairCacheKey(), string(encoded), time.Second*30)
	}

	return pairs
}

func (repo *TriggerRepository) UpdateTriggerState(ticker model.MiniTicker) {
	for _, order := range repo.GetTriggerOrders(ticker.Symbol) {
		distance := repo.Formatter.PercentDistance(ticker.Close, order.TriggerPrice)

		_, err := repo.DB.Exec(`
			UPDATE trigger_orders t SET
				t.current_price = ?,
				t.distance = ?
			WHERE t.id = ? AND t.bot_id = ?
		`,
			ticker.Close.String(),
			distance,
			order.Id,
			repo.CurrentBot.Id,
		)

		if err != nil {
			log.Println(err)
		}
	}
}

func (repo *TriggerRepository) invalidatePairCache() {
	repo.RDB.Del(*repo.Ctx, repo.getPairCacheKey())
}

func (repo *TriggerRepository) getPairCacheKey() string {
	return fmt.Sprintf("trigger-pairs-bot-%d", repo.CurrentBot.Id)
}
