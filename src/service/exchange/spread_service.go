package exchange

import (
	"log"

	"github.com/shopspring/decimal"
	"gitlab.com/open-soft/go-spread-bot/src/client"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/repository"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
	"gitlab.com/open-soft/go-spread-bot/src/validator"
)

// SpreadService runs the whole pipeline for one request: resolve the
// trading rules, shape the ladder, validate it, then either submit the
// orders right away or park the payload as a trigger order.
type SpreadService struct {
	Binance           client.ExchangeAPIInterface
	RuleService       TradingRulesInterface
	BalanceService    BalanceServiceInterface
	SpreadCalculator  *SpreadCalculator
	OrderValidator    validator.OrderValidatorInterface
	OrderExecutor     OrderExecutorInterface
	TriggerRepository repository.TriggerStorageInterface
	Formatter         *utils.Formatter
	CurrentBot        *model.Bot
}

func (s *SpreadService) Create(request model.SpreadRequest) (*model.SpreadResult, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	symbol := request.GetSymbol()

	rules, err := s.RuleService.GetTradingRules(symbol)
	if err != nil {
		return nil, err
	}

	if request.Options.Iceberg && !rules.IcebergAllowed {
		// downgraded to plain orders everywhere, never rejected
		log.Printf("[%s] Iceberg orders are not allowed, disabling", symbol)
		request.Options.Iceberg = false
	}

	baseBalance, quoteBalance, err := s.resolveBalances(request)
	if err != nil {
		return nil, err
	}

	quantity, quoteToSpend := s.SpreadCalculator.ResolveQuantity(request, rules, baseBalance, quoteBalance)
	payload := s.SpreadCalculator.Calculate(request, rules, quantity, quoteToSpend)

	result := &model.SpreadResult{
		Symbol:   symbol,
		Payload:  payload,
		Quantity: quantity,
		Valid:    s.OrderValidator.Validate(payload, request, rules),
	}

	if !result.Valid {
		return result, nil
	}

	if request.IsDeferred() {
		triggerOrderId, err := s.createTriggerOrder(request, payload)
		if err != nil {
			return nil, err
		}

		result.TriggerOrderId = triggerOrderId

		return result, nil
	}

	s.OrderExecutor.Execute(request, payload)
	result.Executed = true

	return result, nil
}

func (s *SpreadService) resolveBalances(request model.SpreadRequest) (decimal.Decimal, decimal.Decimal, error) {
	baseBalance, err := s.BalanceService.GetAssetBalance(request.Base, true)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	quoteBalance, err := s.BalanceService.GetAssetBalance(request.Quote, true)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	// quantity locked in stops counts as sellable when the stops are
	// cancelled on fire
	if request.IsDeferred() && request.IsSell() && request.Options.CancelStops {
		baseBalance = baseBalance.Add(s.getOpenStopQuantity(request.GetSymbol()))
	}

	return baseBalance, quoteBalance, nil
}

func (s *SpreadService) getOpenStopQuantity(symbol string) decimal.Decimal {
	total := decimal.Zero

	orders, err := s.Binance.GetOpenOrders(symbol)
	if err != nil {
		log.Printf("[%s] Can't list open orders: %s", symbol, err.Error())
		return total
	}

	for _, order := range orders {
		if order.IsSellStopLoss() {
			total = total.Add(order.OrigQty)
		}
	}

	return total
}

func (s *SpreadService) createTriggerOrder(request model.SpreadRequest, payload []model.OrderSpec) (*int64, error) {
	symbol := request.GetSymbol()

	currentPrice, err := s.Binance.TickerPrice(symbol)
	if err != nil {
		return nil, err
	}

	direction := model.TriggerDirectionAbove
	if request.TriggerPrice.LessThan(currentPrice) {
		direction = model.TriggerDirectionBelow
	}

	order := model.TriggerOrder{
		BotId:        s.CurrentBot.Id,
		Symbol:       symbol,
		Direction:    direction,
		TriggerPrice: *request.TriggerPrice,
		Payload:      payload,
		Request:      request,
		State: model.TriggerState{
			CurrentPrice: currentPrice,
			Distance:     s.Formatter.PercentDistance(currentPrice, *request.TriggerPrice),
		},
	}

	triggerOrderId, err := s.TriggerRepository.Create(order)
	if err != nil {
		return nil, err
	}

	log.Printf(
		"[%s] Trigger order [%d] created: fires when price %s %s",
		symbol,
		*triggerOrderId,
		direction,
		request.TriggerPrice.String(),
	)

	return triggerOrderId, nil
}
