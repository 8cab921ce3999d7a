package validator

import (
	"fmt"

	"github.com/google/uuid"
	"gitlab.com/open-soft/go-spread-bot/src/client"
	"gitlab.com/open-soft/go-spread-bot/src/model"
)

type OrderValidatorInterface interface {
	Validate(payload []model.OrderSpec, request model.SpreadRequest, rules *model.TradingRules) bool
}

// OrderValidator checks every rung against the locally known exchange
// bounds and dry-runs the clean ones against the exchange. All rungs are
// always evaluated so the caller sees every problem at once.
type OrderValidator struct {
	Binance client.ExchangeAPIInterface
}

func (v *OrderValidator) Validate(payload []model.OrderSpec, request model.SpreadRequest, rules *model.TradingRules) bool {
	valid := true

	for index := range payload {
		spec := &payload[index]

		violation := v.validateBounds(spec, rules)

		if len(violation) > 0 {
			spec.Validation = violation
			valid = false
			continue
		}

		if err := v.Binance.TestOrder(v.buildTestTicket(request, *spec)); err != nil {
			spec.Validation = err.Error()
			valid = false
			continue
		}

		spec.Validation = model.ValidationPassed
	}

	return valid
}

func (v *OrderValidator) validateBounds(spec *model.OrderSpec, rules *model.TradingRules) string {
	violation := ""

	if !rules.ValidateNotional(spec.Price, spec.Quantity) {
		violation = fmt.Sprintf("Cost too small, min = %s", rules.MinNotional.String())
	}

	if !rules.ValidateQuantity(spec.Quantity) {
		violation = fmt.Sprintf(
			"Quantity out of range %s-%s",
			rules.MinQuantity.String(),
			rules.MaxQuantity.String(),
		)
	}

	if !rules.ValidatePrice(spec.Price) {
		violation = fmt.Sprintf(
			"Price out of range %s-%s",
			rules.MinPrice.String(),
			rules.MaxPrice.String(),
		)
	}

	return violation
}

func (v *OrderValidator) buildTestTicket(request model.SpreadRequest, spec model.OrderSpec) model.OrderTicket {
	ticket := model.OrderTicket{
		Symbol:           request.GetSymbol(),
		Side:             request.Side,
		Type:             model.OrderTypeLimit,
		TimeInForce:      model.TimeInForceGTC,
		Quantity:         spec.Quantity.String(),
		Price:            spec.Price.String(),
		NewClientOrderId: uuid.New().String(),
	}

	if request.Options.MakerOnly {
		ticket.Type = model.OrderTypeLimitMaker
		ticket.TimeInForce = ""
	}

	if request.Options.Iceberg && spec.IcebergQty.IsPositive() {
		ticket.IcebergQty = spec.IcebergQty.String()
	}

	return ticket
}
