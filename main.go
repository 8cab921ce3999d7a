package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gitlab.com/open-soft/go-spread-bot/src/config"
)

func main() {
	pwd, _ := os.Getwd()
	if _, err := os.Stat(fmt.Sprintf("%s/.env", pwd)); err == nil {
		log.Println(".env is found, loading variables...")
		err = godotenv.Load()
		if err != nil {
			log.Println(err)
		}
	}

	container := config.InitServiceContainer()
	defer container.Db.Close()

	log.Printf("Bot [%s] is initialized successfully", container.CurrentBot.BotUuid)

	container.StartHttpServer()

	// blocks, watching trigger pairs until the process exits
	container.TriggerMonitor.Start()
}
