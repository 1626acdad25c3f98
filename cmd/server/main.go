package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/f4ithlin/ECE464CooperBooker/internal/booking"
	"github.com/f4ithlin/ECE464CooperBooker/internal/config"
	"github.com/f4ithlin/ECE464CooperBooker/internal/database"
	"github.com/f4ithlin/ECE464CooperBooker/internal/handler"
	"github.com/f4ithlin/ECE464CooperBooker/internal/queue"
	"github.com/f4ithlin/ECE464CooperBooker/internal/repository"
	"github.com/f4ithlin/ECE464CooperBooker/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	rooms := repository.NewRoomRepo(db)
	events := repository.NewEventRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	svc := booking.NewService(rooms, events, users)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Cfg:     cfg,
		Auth:    handler.NewAuthHandler(users, tokens, cfg),
		Booking: handler.NewBookingHandler(svc, events),
		Browse:  handler.NewBrowseHandler(rooms, users),
		Health:  handler.Health(db),
		Redis:   rdb,
	})

	go queue.StartBookingConsumer()

	log.Printf("listening on :%s (env %s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
