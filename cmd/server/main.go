package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourism-booking/internal/config"
	"github.com/iliyamo/tourism-booking/internal/database"
	"github.com/iliyamo/tourism-booking/internal/handler"
	"github.com/iliyamo/tourism-booking/internal/queue"
	"github.com/iliyamo/tourism-booking/internal/repository"
	"github.com/iliyamo/tourism-booking/internal/router"
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

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// Background consumer appends confirmed bookings to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	roomTypeRepo := repository.NewRoomTypeRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	transferRepo := repository.NewTransferRepo(db)
	vehicleRepo := repository.NewVehicleRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	bookingRepo := repository.NewTransferBookingRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	hotelHandler := handler.NewHotelHandler(hotelRepo, roomTypeRepo, inventoryRepo)
	transferHandler := handler.NewTransferHandler(transferRepo, vehicleRepo, scheduleRepo)
	reservationHandler := handler.NewReservationHandler(cfg, reservationRepo, inventoryRepo, hotelRepo, roomTypeRepo, userRepo)
	bookingHandler := handler.NewTransferBookingHandler(cfg, bookingRepo, scheduleRepo, transferRepo, userRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCatalog(e, hotelHandler, transferHandler, cfg.JWTSecret, cacheCfg, rdb)
	router.RegisterBooking(e, reservationHandler, bookingHandler, cfg.JWTSecret, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
