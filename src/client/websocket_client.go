package client

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"gitlab.com/open-soft/go-spread-bot/src/model"
)

type TickerStreamInterface interface {
	SubscribeMiniTicker(symbol string, events chan<- model.MiniTicker)
}

// TickerStream opens one websocket connection per subscribed symbol and
// feeds miniTicker events into the caller's channel until the process exits.
type TickerStream struct {
	Address string
}

func (t *TickerStream) SubscribeMiniTicker(symbol string, events chan<- model.MiniTicker) {
	go t.listen(symbol, events, 1)
}

func (t *TickerStream) listen(symbol string, events chan<- model.MiniTicker, connectionId int64) {
	connection, _, err := websocket.DefaultDialer.Dial(t.Address, nil)
	if err != nil {
		log.Printf("Binance [err_1] WS Ticker [%s]: %s, wait and reconnect...", t.Address, err.Error())
		time.Sleep(time.Second * 3)
		connectionId++

		t.listen(symbol, events, connectionId)
		return
	}

	socketRequest := model.SocketStreamsRequest{
		Id:     connectionId,
		Method: "SUBSCRIBE",
		Params: []string{fmt.Sprintf("%s@miniTicker", strings.ToLower(symbol))},
	}
	serialized, _ := json.Marshal(socketRequest)
	_ = connection.WriteMessage(websocket.TextMessage, serialized)

	for {
		_, message, err := connection.ReadMessage()
		if err != nil {
			log.Printf("Binance [err_2] WS Ticker, read [%s]: %s", symbol, err.Error())

			_ = connection.Close()
			log.Printf("Binance [err_2] WS Ticker, wait and reconnect...")
			time.Sleep(time.Second * 3)
			connectionId++
			t.listen(symbol, events, connectionId)
			return
		}

		var ticker model.MiniTicker
		_ = json.Unmarshal(message, &ticker)

		// subscribe acknowledgements carry no symbol
		if len(ticker.Symbol) == 0 {
			continue
		}

		events <- ticker
	}
}
