package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/repository"
	"gitlab.com/open-soft/go-spread-bot/src/service/exchange"
)

type OrderController struct {
	CurrentBot        *model.Bot
	SpreadService     *exchange.SpreadService
	TriggerRepository repository.TriggerStorageInterface
	OrderRepository   repository.OrderHistoryStorageInterface
}

func (o *OrderController) PostSpreadOrderAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "POST" {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)

		return
	}

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != o.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	var request model.SpreadRequest

	err := json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	if request.IsDeferred() {
		http.Error(w, "Trigger price is not supported here, use /order/trigger", http.StatusBadRequest)

		return
	}

	o.handleRequest(w, request)
}

func (o *OrderController) PostTriggerOrderAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "POST" {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)

		return
	}

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != o.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	var request model.SpreadRequest

	err := json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	if !request.IsDeferred() {
		http.Error(w, "Trigger price is required", http.StatusBadRequest)

		return
	}

	o.handleRequest(w, request)
}

func (o *OrderController) handleRequest(w http.ResponseWriter, request model.SpreadRequest) {
	result, err := o.SpreadService.Create(request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	encoded, _ := json.Marshal(result)
	fmt.Fprintf(w, string(encoded))
}

func (o *OrderController) GetTriggerOrderListAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "GET" {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)

		return
	}

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != o.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	list := o.TriggerRepository.GetAllTriggerOrders()
	encoded, _ := json.Marshal(list)
	fmt.Fprintf(w, string(encoded))
}

func (o *OrderController) DeleteTriggerOrderAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "DELETE" {
		http.Error(w, "Only DELETE method is allowed", http.StatusMethodNotAllowed)

		return
	}

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != o.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(req.URL.Path, "/order/trigger/"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid trigger order id", http.StatusBadRequest)

		return
	}

	if _, err := o.TriggerRepository.GetTriggerOrder(id); err != nil {
		http.Error(w, "Trigger order is not found", http.StatusNotFound)

		return
	}

	if err := o.TriggerRepository.Remove(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	fmt.Fprintf(w, "OK")
}

func (o *OrderController) GetOrderHistoryAction(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if req.Method == "OPTIONS" {
		fmt.Fprintf(w, "OK")
		return
	}

	if req.Method != "GET" {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)

		return
	}

	botUuid := req.URL.Query().Get("botUuid")

	if botUuid != o.CurrentBot.BotUuid {
		http.Error(w, "Forbidden", http.StatusForbidden)

		return
	}

	list := o.OrderRepository.GetOrderHistory()
	encoded, _ := json.Marshal(list)
	fmt.Fprintf(w, string(encoded))
}
