package model

type Bot struct {
	Id        int64  `json:"id"`
	BotUuid   string `json:"botUuid"`
	CreatedAt string `json:"createdAt"`
}
