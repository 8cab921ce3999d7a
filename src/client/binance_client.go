package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/open-soft/go-spread-bot/src/model"
)

type ExchangeAPIInterface interface {
	GetExchangeInfo(symbol string) (*model.ExchangeInfo, error)
	TickerPrice(symbol string) (decimal.Decimal, error)
	GetAccountStatus() (*model.AccountStatus, error)
	GetOpenOrders(symbol string) ([]model.BinanceOrder, error)
	TestOrder(ticket model.OrderTicket) error
	CreateOrder(ticket model.OrderTicket) (model.BinanceOrder, error)
	CancelOrder(symbol string, orderId int64) error
}

type Binance struct {
	ApiKey    string
	ApiSecret string
	BaseURL   string

	HttpClient *http.Client

	RetryAttempts int64
	RetryDelay    time.Duration
}

type tickerPriceResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

func (b *Binance) GetExchangeInfo(symbol string) (*model.ExchangeInfo, error) {
	params := url.Values{}
	if len(symbol) > 0 {
		params.Set("symbol", strings.ToUpper(symbol))
	}

	var exchangeInfo model.ExchangeInfo
	err := b.retry(func() error {
		return b.request("GET", "/api/v3/exchangeInfo", params, false, &exchangeInfo)
	})

	if err != nil {
		return nil, err
	}

	return &exchangeInfo, nil
}

func (b *Binance) TickerPrice(symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))

	var ticker tickerPriceResponse
	err := b.retry(func() error {
		return b.request("GET", "/api/v3/ticker/price", params, false, &ticker)
	})

	if err != nil {
		return decimal.Zero, err
	}

	return ticker.Price, nil
}

func (b *Binance) GetAccountStatus() (*model.AccountStatus, error) {
	var account model.AccountStatus
	err := b.retry(func() error {
		return b.signedRequest("GET", "/api/v3/account", url.Values{}, &account)
	})

	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (b *Binance) GetOpenOrders(symbol string) ([]model.BinanceOrder, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))

	orders := make([]model.BinanceOrder, 0)
	err := b.retry(func() error {
		return b.signedRequest("GET", "/api/v3/openOrders", params, &orders)
	})

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// TestOrder dry-runs the ticket against the exchange order validation
// endpoint. A nil error means the exchange would accept the order.
func (b *Binance) TestOrder(ticket model.OrderTicket) error {
	var result map[string]any

	return b.signedRequest("POST", "/api/v3/order/test", b.ticketParams(ticket), &result)
}

func (b *Binance) CreateOrder(ticket model.OrderTicket) (model.BinanceOrder, error) {
	var order model.BinanceOrder
	err := b.signedRequest("POST", "/api/v3/order", b.ticketParams(ticket), &order)

	if err != nil {
		log.Printf("[%s] Limit Order: %s", ticket.Symbol, err.Error())

		return model.BinanceOrder{}, err
	}

	return order, nil
}

func (b *Binance) CancelOrder(symbol string, orderId int64) error {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("orderId", fmt.Sprintf("%d", orderId))

	var order model.BinanceOrder
	err := b.retry(func() error {
		return b.signedRequest("DELETE", "/api/v3/order", params, &order)
	})

	if err != nil {
		return err
	}

	log.Printf("[%s] Order [%d] is cancelled", symbol, orderId)

	return nil
}

func (b *Binance) ticketParams(ticket model.OrderTicket) url.Values {
	params := url.Values{}
	params.Set("symbol", ticket.Symbol)
	params.Set("side", ticket.Side)
	params.Set("type", ticket.Type)
	params.Set("quantity", ticket.Quantity)
	params.Set("price", ticket.Price)
	params.Set("newClientOrderId", ticket.NewClientOrderId)

	if len(ticket.TimeInForce) > 0 {
		params.Set("timeInForce", ticket.TimeInForce)
	}

	if len(ticket.IcebergQty) > 0 {
		params.Set("icebergQty", ticket.IcebergQty)
	}

	return params
}

// retry re-runs the operation with bounded exponential backoff:
// attempt N sleeps RetryDelay * 2^N before the next try. Exchange rejections
// (model.Error) are final and are returned immediately.
func (b *Binance) retry(operation func() error) error {
	var err error

	for attempt := int64(0); attempt < b.RetryAttempts; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}

		var apiError *model.Error
		if errors.As(err, &apiError) {
			return err
		}

		time.Sleep(b.RetryDelay * time.Duration(int64(1)<<attempt))
	}

	return err
}

func (b *Binance) signedRequest(method string, path string, params url.Values, result any) error {
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	params.Set("recvWindow", "10000")
	params.Set("signature", b.sign(params.Encode()))

	return b.request(method, path, params, true, result)
}

func (b *Binance) request(method string, path string, params url.Values, signed bool, result any) error {
	address := fmt.Sprintf("%s%s?%s", b.BaseURL, path, params.Encode())

	req, err := http.NewRequest(method, address, nil)
	if err != nil {
		return err
	}

	if signed {
		req.Header.Set("X-MBX-APIKEY", b.ApiKey)
	}

	response, err := b.HttpClient.Do(req)
	if err != nil {
		return err
	}

	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		var apiError model.Error
		if jsonErr := json.Unmarshal(body, &apiError); jsonErr == nil && len(apiError.Message) > 0 {
			// 429 and 5xx are transient, let retry() see a plain error
			if response.StatusCode == http.StatusTooManyRequests || response.StatusCode >= 500 {
				return errors.New(apiError.GetMessage())
			}

			return &apiError
		}

		return errors.New(fmt.Sprintf("%s %s: HTTP %d", method, path, response.StatusCode))
	}

	if result != nil {
		return json.Unmarshal(body, result)
	}

	return nil
}

func (b *Binance) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(b.ApiSecret))
	mac.Write([]byte(payload))

	return fmt.Sprintf("%x", mac.Sum(nil))
}
