package router // route registration for the booking API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tourism-booking/internal/config"
	"github.com/iliyamo/tourism-booking/internal/handler"
	"github.com/iliyamo/tourism-booking/internal/middleware"
	"github.com/iliyamo/tourism-booking/internal/model"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints.  Register, login, refresh
// and logout are open; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the hotel and transfer catalog.  Reads are
// open to any authenticated role and cached; writes are admin-only.
func RegisterCatalog(e *echo.Echo, hh *handler.HotelHandler, th *handler.TransferHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	read := e.Group("/v1")
	read.Use(middleware.JWTAuth(jwtSecret))
	read.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAgent, model.RoleCustomer))
	read.Use(middleware.NewRedisCache(cacheCfg, rdb))
	read.GET("/hotels", hh.ListHotels)
	read.GET("/hotels/:id/room-types", hh.ListRoomTypes)
	read.GET("/room-types/:id/inventory", hh.GetInventory)
	read.GET("/transfers", th.ListTransfers)
	read.GET("/transfer-vehicles", th.ListVehicles)
	read.GET("/transfer-schedules", th.ListSchedules)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/hotels", hh.CreateHotel)
	admin.POST("/hotels/:id/room-types", hh.CreateRoomType)
	admin.POST("/room-types/:id/inventory", hh.InitInventory)
	admin.POST("/transfers", th.CreateTransfer)
	admin.POST("/transfer-vehicles", th.CreateVehicle)
	admin.POST("/transfer-schedules", th.CreateSchedule)
}

// RegisterBooking registers the booking engine endpoints.  Creation and
// lifecycle transitions are restricted to agents and admins and rate
// limited; availability lookups are open to all roles.
func RegisterBooking(e *echo.Echo, rh *handler.ReservationHandler, bh *handler.TransferBookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	avail := e.Group("/v1")
	avail.Use(middleware.JWTAuth(jwtSecret))
	avail.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAgent, model.RoleCustomer))
	avail.GET("/availability", rh.CheckAvailability)

	book := e.Group("/v1")
	book.Use(middleware.JWTAuth(jwtSecret))
	book.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAgent))
	book.Use(middleware.NewTokenBucket(rlCfg, rdb))

	book.POST("/reservations", rh.Create)
	book.GET("/reservations", rh.List)
	book.GET("/reservations/:id", rh.GetByID)
	book.GET("/reservations/number/:number", rh.GetByNumber)
	book.POST("/reservations/:id/confirm", rh.Confirm)
	book.POST("/reservations/:id/cancel", rh.Cancel)

	book.POST("/transfer-bookings", bh.Create)
	book.GET("/transfer-bookings", bh.List)
	book.GET("/transfer-bookings/:id", bh.GetByID)
	book.GET("/transfer-bookings/reference/:reference", bh.GetByReference)
	book.POST("/transfer-bookings/:id/confirm", bh.Confirm)
	book.POST("/transfer-bookings/:id/cancel", bh.Cancel)
}
