package repository

import (
	"database/sql"
	"log"
	"os"

	"gitlab.com/open-soft/go-spread-bot/src/model"
)

type BotRepository struct {
	DB *sql.DB
}

func (b *BotRepository) GetCurrentBot() *model.Bot {
	botUuid := os.Getenv("BOT_UUID")

	if len(botUuid) == 0 {
		panic("'BOT_UUID' variable must be set!")
	}

	var bot model.Bot

	err := b.DB.QueryRow(`
		SELECT
			b.id as Id,
			b.uuid as Uuid,
			b.created_at as CreatedAt
		FROM bots b
		WHERE b.uuid = ?`, botUuid,
	).Scan(
		&bot.Id,
		&bot.BotUuid,
		&bot.CreatedAt,
	)

	if err != nil {
		log.Println(err)
		return nil
	}

	return &bot
}

func (b *BotRepository) Create(bot model.Bot) error {
	_, err := b.DB.Exec(`INSERT INTO bots SET uuid = ?`, bot.BotUuid)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}
