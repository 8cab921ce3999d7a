package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-spread-bot/src/client"
	"gitlab.com/open-soft/go-spread-bot/src/controller"
	"gitlab.com/open-soft/go-spread-bot/src/model"
	"gitlab.com/open-soft/go-spread-bot/src/repository"
	"gitlab.com/open-soft/go-spread-bot/src/service/exchange"
	"gitlab.com/open-soft/go-spread-bot/src/utils"
	"gitlab.com/open-soft/go-spread-bot/src/validator"
)

func InitServiceContainer() Container {
	db, err := sql.Open("mysql", os.Getenv("DATABASE_DSN"))

	if err != nil {
		log.Fatal(fmt.Sprintf("MySQL can't connect: %s", err.Error()))
	}

	db.SetMaxIdleConns(64)
	db.SetMaxOpenConns(64)
	db.SetConnMaxLifetime(time.Minute)

	var ctx = context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_DSN"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	baseURL := os.Getenv("BINANCE_API_DSN")
	if len(baseURL) == 0 {
		baseURL = "https://api.binance.com"
	}

	streamAddress := os.Getenv("BINANCE_STREAM_DSN")
	if len(streamAddress) == 0 {
		streamAddress = "wss://stream.binance.com:9443/ws"
	}

	httpClient := http.Client{}
	binance := client.Binance{
		ApiKey:        os.Getenv("BINANCE_API_KEY"),
		ApiSecret:     os.Getenv("BINANCE_API_SECRET"),
		BaseURL:       baseURL,
		HttpClient:    &httpClient,
		RetryAttempts: 6,
		RetryDelay:    time.Millisecond * 50,
	}

	tickerStream := client.TickerStream{
		Address: streamAddress,
	}

	botRepository := repository.BotRepository{
		DB: db,
	}

	currentBot := botRepository.GetCurrentBot()
	if currentBot == nil {
		botUuid := os.Getenv("BOT_UUID")
		err := botRepository.Create(model.Bot{
			BotUuid: botUuid,
		})
		if err != nil {
			panic(err)
		}

		currentBot = botRepository.GetCurrentBot()
		if currentBot == nil {
			panic(fmt.Sprintf("Can't initialize bot: %s", botUuid))
		}
	}

	formatter := utils.Formatter{}
	timeService := utils.TimeHelper{}

	balanceService := exchange.BalanceService{
		Binance:    &binance,
		RDB:        rdb,
		Ctx:        &ctx,
		CurrentBot: currentBot,
	}

	ruleService := exchange.ExchangeRuleService{
		Binance:    &binance,
		Formatter:  &formatter,
		RDB:        rdb,
		Ctx:        &ctx,
		CurrentBot: currentBot,
	}

	orderRepository := repository.OrderRepository{
		DB:         db,
		RDB:        rdb,
		Ctx:        &ctx,
		CurrentBot: currentBot,
	}

	triggerRepository := repository.TriggerRepository{
		DB:         db,
		RDB:        rdb,
		Ctx:        &ctx,
		CurrentBot: currentBot,
		Formatter:  &formatter,
	}

	spreadCalculator := exchange.SpreadCalculator{
		Formatter: &formatter,
	}

	orderValidator := validator.OrderValidator{
		Binance: &binance,
	}

	orderExecutor := exchange.OrderExecutor{
		CurrentBot:       currentBot,
		Binance:          &binance,
		OrderRepository:  &orderRepository,
		BalanceService:   &balanceService,
		RuleService:      &ruleService,
		SpreadCalculator: &spreadCalculator,
		TimeService:      &timeService,
	}

	spreadService := exchange.SpreadService{
		Binance:           &binance,
		RuleService:       &ruleService,
		BalanceService:    &balanceService,
		SpreadCalculator:  &spreadCalculator,
		OrderValidator:    &orderValidator,
		OrderExecutor:     &orderExecutor,
		TriggerRepository: &triggerRepository,
		Formatter:         &formatter,
		CurrentBot:        currentBot,
	}

	triggerMonitor := exchange.TriggerMonitor{
		TriggerRepository: &triggerRepository,
		OrderExecutor:     &orderExecutor,
		TickerStream:      &tickerStream,
		CheckInterval:     time.Second * 5,
	}

	orderController := controller.OrderController{
		CurrentBot:        currentBot,
		SpreadService:     &spreadService,
		TriggerRepository: &triggerRepository,
		OrderRepository:   &orderRepository,
	}

	return Container{
		Db:                db,
		CurrentBot:        currentBot,
		TimeService:       &timeService,
		Binance:           &binance,
		TickerStream:      &tickerStream,
		BalanceService:    &balanceService,
		RuleService:       &ruleService,
		OrderRepository:   &orderRepository,
		TriggerRepository: &triggerRepository,
		SpreadCalculator:  &spreadCalculator,
		OrderValidator:    &orderValidator,
		OrderExecutor:     &orderExecutor,
		SpreadService:     &spreadService,
		TriggerMonitor:    &triggerMonitor,
		OrderController:   &orderController,
	}
}

type Container struct {
	Db                *sql.DB
	CurrentBot        *model.Bot
	TimeService       *utils.TimeHelper
	Binance           *client.Binance
	TickerStream      *client.TickerStream
	BalanceService    *exchange.BalanceService
	RuleService       *exchange.ExchangeRuleService
	OrderRepository   *repository.OrderRepository
	TriggerRepository *repository.TriggerRepository
	SpreadCalculator  *exchange.SpreadCalculator
	OrderValidator    *validator.OrderValidator
	OrderExecutor     *exchange.OrderExecutor
	SpreadService     *exchange.SpreadService
	TriggerMonitor    *exchange.TriggerMonitor
	OrderController   *controller.OrderController
}

func (c *Container) StartHttpServer() {
	http.HandleFunc("/order/spread", c.OrderController.PostSpreadOrderAction)
	http.HandleFunc("/order/trigger", c.OrderController.PostTriggerOrderAction)
	http.HandleFunc("/order/trigger/list", c.OrderController.GetTriggerOrderListAction)
	http.HandleFunc("/order/trigger/", c.OrderController.DeleteTriggerOrderAction)
	http.HandleFunc("/order/history", c.OrderController.GetOrderHistoryAction)

	// Start HTTP server!
	go func() {
		_ = http.ListenAndServe(":8080", nil)
	}()
}
