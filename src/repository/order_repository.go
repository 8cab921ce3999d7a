package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-spread-bot/src/model"
)

type OrderHistoryStorageInterface interface {
	RecordOrderHistory(entry model.OrderHistory) (*int64, error)
	GetOrderHistory() []model.OrderHistory
}

type OrderRepository struct {
	DB         *sql.DB
	RDB        *redis.Client
	Ctx        *context.Context
	CurrentBot *model.Bot
}

// RecordOrderHistory persists every submission attempt, rejected ones
// included, so a partially filled spread can be reconstructed afterwards.
func (repo *OrderRepository) RecordOrderHistory(entry model.OrderHistory) (*int64, error) {
	ticket, err := json.Marshal(entry.Ticket)
	if err != nil {
		return nil, err
	}

	var result []byte
	if entry.Result != nil {
		result, err = json.Marshal(entry.Result)
		if err != nil {
			return nil, err
		}
	}

	res, err := repo.DB.Exec(`
		INSERT INTO order_history SET
			bot_id = ?,
			symbol = ?,
			ticket = ?,
			result = ?,
			error = ?,
			success = ?,
			created_at = NOW()
	`,
		repo.CurrentBot.Id,
		entry.Ticket.Symbol,
		string(ticket),
		string(result),
		entry.Error,
		entry.Success,
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

	return &lastId, nil
}

func (repo *OrderRepository) GetOrderHistory() []model.OrderHistory {
	res, err := repo.DB.Query(`
		SELECT
			o.id as Id,
			o.bot_id as BotId,
			o.ticket as Ticket,
			o.result as Result,
			o.error as Error,
			o.success as Success,
			o.created_at as CreatedAt
		FROM order_history o
		WHERE o.bot_id = ?
		ORDER BY o.id DESC`,
		repo.CurrentBot.Id,
	)

	entries := make([]model.OrderHistory, 0)

	if err != nil {
		log.Println(err)
		return entries
	}

	defer res.Close()

	for res.Next() {
		var entry model.OrderHistory
		var ticket []byte
		var result sql.NullString

		err := res.Scan(
			&entry.Id,
			&entry.BotId,
			&ticket,
			&result,
			&entry.Error,
			&entry.Success,
			&entry.CreatedAt,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		if err := json.Unmarshal(ticket, &entry.Ticket); err != nil {
			log.Println(err)
			continue
		}

		if result.Valid && len(result.String) > 0 {
			var binanceOrder model.BinanceOrder
			if err := json.Unmarshal([]byte(result.String), &binanceOrder); err == nil {
				entry.Result = &binanceOrder
			}
		}

		entries = append(entries, entry)
	}

	return entries
}
