package exchange

import (
	"log"

	"github.com/google/uuid"
	"gitlab.com/open-soft/go-spread-bot/src/client"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/repository"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
)

type OrderExecutorInterface interface {
	Execute(request model.SpreadRequest, payload []model.OrderSpec) []model.OrderHistory
}

type TriggerExecutorInterface interface {
	ExecuteTrigger(order model.TriggerOrder)
}

type OrderExecutor struct {
	CurrentBot       *model.Bot
	Binance          client.ExchangeAPIInterface
	OrderRepository  repository.OrderHistoryStorageInterface
	BalanceService   BalanceServiceInterface
	RuleService      TradingRulesInterface
	SpreadCalculator *SpreadCalculator
	TimeService      utils.TimeServiceInterface
}

// Execute submits the rungs strictly in sequence. A rejected rung is
// recorded and skipped over: a partial fill of a multi-rung spread is an
// accepted outcome, not a rollback trigger.
func (e *OrderExecutor) Execute(request model.SpreadRequest, payload []model.OrderSpec) []model.OrderHistory {
	history := make([]model.OrderHistory, 0)

	for _, spec := range payload {
		ticket := e.buildTicket(request, spec)

		entry := model.OrderHistory{
			BotId:     e.CurrentBot.Id,
			Ticket:    ticket,
			CreatedAt: e.TimeService.GetNowDateTimeString(),
		}

		order, err := e.Binance.CreateOrder(ticket)

		if err != nil {
			entry.Error = err.Error()
			log.Printf("[%s] Rung #%d is rejected: %s", request.GetSymbol(), spec.Number, err.Error())
		} else {
			entry.Result = &order
			entry.Success = true
			log.Printf(
				"[%s] Rung #%d is placed [%d]: %s x %s",
				request.GetSymbol(),
				spec.Number,
				order.OrderId,
				ticket.Price,
				ticket.Quantity,
			)
		}

		_, repoErr := e.OrderRepository.RecordOrderHistory(entry)
		if repoErr != nil {
			log.Printf("[%s] Can't record order history: %s", request.GetSymbol(), repoErr.Error())
		}

		history = append(history, entry)
	}

	e.BalanceService.InvalidateBalanceCache(request.Base)
	e.BalanceService.InvalidateBalanceCache(request.Quote)

	return history
}

// ExecuteTrigger runs a fired trigger order's payload. The trigger has
// already been removed from the store by the monitor at this point.
func (e *OrderExecutor) ExecuteTrigger(order model.TriggerOrder) {
	request := order.Request
	payload := []model.OrderSpec(order.Payload)

	if request.Options.CancelStops {
		e.cancelStops(order.Symbol)
	}

	if request.Options.DeferPercentage {
		rebuilt, err := e.rebuildPayload(request)
		if err != nil {
			log.Printf("[%s] Trigger [%d]: can't rebuild payload: %s", order.Symbol, order.Id, err.Error())
			return
		}

		payload = rebuilt
	}

	e.Execute(request, payload)
}

// rebuildPayload re-resolves a percent-of-balance quantity against the free
// balance observed at fire time instead of the one captured when the trigger
// was created.
func (e *OrderExecutor) rebuildPayload(request model.SpreadRequest) ([]model.OrderSpec, error) {
	rules, err := e.RuleService.GetTradingRules(request.GetSymbol())
	if err != nil {
		return nil, err
	}

	e.BalanceService.InvalidateBalanceCache(request.Base)
	e.BalanceService.InvalidateBalanceCache(request.Quote)

	baseBalance, err := e.BalanceService.GetAssetBalance(request.Base, false)
	if err != nil {
		return nil, err
	}

	quoteBalance, err := e.BalanceService.GetAssetBalance(request.Quote, false)
	if err != nil {
		return nil, err
	}

	quantity, quoteToSpend := e.SpreadCalculator.ResolveQuantity(request, rules, baseBalance, quoteBalance)

	log.Printf("[%s] Deferred quantity resolved: %s", request.GetSymbol(), quantity.String())

	return e.SpreadCalculator.Calculate(request, rules, quantity, quoteToSpend), nil
}

func (e *OrderExecutor) cancelStops(symbol string) {
	orders, err := e.Binance.GetOpenOrders(symbol)
	if err != nil {
		log.Printf("[%s] Can't list open orders: %s", symbol, err.Error())
		return
	}

	for _, order := range orders {
		if !order.IsSellStopLoss() {
			continue
		}

		if err := e.Binance.CancelOrder(symbol, order.OrderId); err != nil {
			log.Printf("[%s] Can't cancel stop [%d]: %s", symbol, order.OrderId, err.Error())
		}
	}
}

func (e *OrderExecutor) buildTicket(request model.SpreadRequest, spec model.OrderSpec) model.OrderTicket {
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
