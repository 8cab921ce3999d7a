package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

const TriggerDirectionAbove = ">"
const TriggerDirectionBelow = "<"

type TriggerPayload []OrderSpec

func (p *TriggerPayload) Scan(src interface{}) error {
	return json.Unmarshal(src.([]byte), &p)
}
func (p TriggerPayload) Value() (driver.Value, error) {
	jsonV, err := json.Marshal(p)
	return string(jsonV), err
}

func (r *SpreadRequest) Scan(src interface{}) error {
	return json.Unmarshal(src.([]byte), &r)
}
func (r SpreadRequest) Value() (driver.Value, error) {
	jsonV, err := json.Marshal(r)
	return string(jsonV), err
}

type TriggerState struct {
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Distance     string          `json:"distance"`
}

// TriggerOrder is a deferred spread: the resolved payload is persisted and
// executed once the pair's price satisfies the trigger condition.
type TriggerOrder struct {
	Id           int64           `json:"id"`
	BotId        int64           `json:"botId"`
	Symbol       string          `json:"symbol"`
	Direction    string          `json:"direction"`
	TriggerPrice decimal.Decimal `json:"triggerPrice"`
	Payload      TriggerPayload  `json:"payload"`
	Request      SpreadRequest   `json:"request"`
	State        TriggerState    `json:"state"`
	CreatedAt    string          `json:"createdAt"`
}

func (t *TriggerOrder) IsFired(price decimal.Decimal) bool {
	above := t.Direction == TriggerDirectionAbove && price.GreaterThanOrEqual(t.TriggerPrice)
	below := t.Direction == TriggerDirectionBelow && price.LessThanOrEqual(t.TriggerPrice)

	return above || below
}
