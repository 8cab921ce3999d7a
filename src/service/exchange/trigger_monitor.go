package exchange

import (
	"log"
	"sync"
	"time"

	"gitlab.com/open-soft/go-spread-bot/src/client"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/repository"
)

// TriggerMonitor discovers pairs with pending trigger orders and keeps one
// live price subscription per pair. A watched pair stays watched for the
// process lifetime, even after its last trigger is gone.
type TriggerMonitor struct {
	TriggerRepository repository.TriggerStorageInterface
	OrderExecutor     TriggerExecutorInterface
	TickerStream      client.TickerStreamInterface
	CheckInterval     time.Duration

	watching     map[string]bool
	watchingLock sync.Mutex
}

// Start blocks, polling for pairs that need a subscription.
func (m *TriggerMonitor) Start() {
	for {
		m.CheckPairs()
		time.Sleep(m.CheckInterval)
	}
}

func (m *TriggerMonitor) CheckPairs() {
	for _, symbol := range m.TriggerRepository.GetTriggerPairs() {
		m.watch(symbol)
	}
}

func (m *TriggerMonitor) IsWatching(symbol string) bool {
	m.watchingLock.Lock()
	defer m.watchingLock.Unlock()

	return m.watching[symbol]
}

func (m *TriggerMonitor) watch(symbol string) {
	m.watchingLock.Lock()
	defer m.watchingLock.Unlock()

	if m.watching == nil {
		m.watching = make(map[string]bool)
	}

	if m.watching[symbol] {
		return
	}

	events := make(chan model.MiniTicker)
	m.TickerStream.SubscribeMiniTicker(symbol, events)
	m.watching[symbol] = true

	log.Printf("[%s] Trigger monitor is watching", symbol)

	go func() {
		for ticker := range events {
			m.HandleTick(ticker)
		}
	}()
}

// HandleTick re-reads the pending triggers for the pair on every tick and
// fires the satisfied ones. The store removal happens strictly before the
// payload executes: once the delete flushed, a later tick cannot re-fire the
// same id. Two ticks racing ahead of the flush can still both fire, that
// window is accepted (single process, best effort).
func (m *TriggerMonitor) HandleTick(ticker model.MiniTicker) {
	orders := m.TriggerRepository.GetTriggerOrders(ticker.Symbol)

	if len(orders) == 0 {
		return
	}

	m.TriggerRepository.UpdateTriggerState(ticker)

	for _, order := range orders {
		if !order.IsFired(ticker.Close) {
			continue
		}

		if err := m.TriggerRepository.Remove(order.Id); err != nil {
			log.Printf("[%s] Trigger [%d]: can't remove before execution: %s", order.Symbol, order.Id, err.Error())
			continue
		}

		log.Printf(
			"[%s] Trigger [%d] fired: price %s %s %s",
			order.Symbol,
			order.Id,
			ticker.Close.String(),
			order.Direction,
			order.TriggerPrice.String(),
		)

		m.OrderExecutor.ExecuteTrigger(order)
	}
}
