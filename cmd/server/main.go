package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/arvandh/restaurant-reservation/internal/booking"
	"github.com/arvandh/restaurant-reservation/internal/config"
	"github.com/arvandh/restaurant-reservation/internal/database"
	"github.com/arvandh/restaurant-reservation/internal/handler"
	"github.com/arvandh/restaurant-reservation/internal/middleware"
	"github.com/arvandh/restaurant-reservation/internal/queue"
	"github.com/arvandh/restaurant-reservation/internal/repository"
	"github.com/arvandh/restaurant-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the limiter and cache pass through.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	branches := repository.NewBranchRepo(db)
	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	ratings := repository.NewRatingRepo(db)
	incentives := repository.NewIncentiveRepo(db)

	svc := booking.NewService(booking.NewSQLStore(db), booking.Config{
		CompletionReward: cfg.RewardPoints,
		RewardOnBooking:  cfg.RewardOnBooking,
		MaxAttempts:      cfg.BookingRetries,
	})

	authH := handler.NewAuthHandler(cfg, db, users, restaurants, tokens)
	accountH := handler.NewAccountHandler(users, tokens)
	restaurantH := handler.NewRestaurantHandler(restaurants, branches)
	reservationH := handler.NewReservationHandler(svc, reservations, tables)
	ratingH := handler.NewRatingHandler(ratings)
	incentiveH := handler.NewIncentiveHandler(incentives)

	e := echo.New()
	e.HideBanner = true

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e, restaurantH, incentiveH, cacheMW)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAccount(e, accountH, cfg.JWTSecret)
	router.RegisterCustomer(e, reservationH, ratingH, incentiveH, cfg.JWTSecret, limitMW)
	router.RegisterOwner(e, reservationH, restaurantH, ratingH, cfg.JWTSecret)

	// Consumer keeps its own reconnect loop for the life of the process.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
