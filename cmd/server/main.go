package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking/internal/availability"
	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/hold"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/router"
	"github.com/iliyamo/hotel-booking/internal/service"
	"github.com/iliyamo/hotel-booking/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err) // plain environment is fine
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// A nil *redis.Client must reach the middleware as an untyped nil.
	var rdb redis.Cmdable
	redisClient := config.NewRedisClient()
	if redisClient != nil {
		rdb = redisClient
		defer redisClient.Close()
	}

	holdCfg := config.LoadHoldConfig()
	var holdStore hold.Store = hold.NewMemoryStore()
	if holdCfg.Backend == "redis" && rdb != nil {
		holdStore = hold.NewRedisStore(rdb, holdCfg.Prefix)
	} else {
		log.Printf("holds: using in-memory store (backend=%s, redis=%v)", holdCfg.Backend, rdb != nil)
	}
	tracker := hold.NewTracker(holdStore, holdCfg.TTL)

	properties := repository.NewPropertyRepo(db)
	roomTypes := repository.NewRoomTypeRepo(db)
	inventory := repository.NewInventoryRepo(db)
	bookings := repository.NewBookingRepo(db)
	policies := repository.NewPolicyRepo(db)
	ratings := handler.NewRatingHandler(repository.NewRatingRepo(db), bookings, properties)
	resolver := availability.NewResolver(roomTypes, availability.NewLedger(inventory), tracker)

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, queue.DefaultLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	}
	bookingSvc := service.NewBookingService(repository.NewUnitOfWork(db), tracker, publisher)

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(tracing.Middleware())
	e.Use(middleware.Metrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	deps := map[string]handler.Pinger{"mysql": db}
	if redisClient != nil {
		deps["redis"] = redisPinger{redisClient}
	}
	router.RegisterRoutes(e, deps)
	router.RegisterPublic(e,
		handler.NewPublicHandler(properties, roomTypes, resolver),
		handler.NewHoldHandler(tracker, roomTypes, holdCfg.MaxUnits),
		ratings,
		router.PublicOptions{
			Cache:     cache,
			HoldLimit: middleware.NewTokenBucket(config.LoadHoldRateLimitConfig(), rdb),
		})
	router.RegisterCustomer(e, handler.NewBookingHandler(bookingSvc, bookings, holdCfg.MaxUnits), ratings, cfg.JWTSecret)
	router.RegisterOwner(e,
		handler.NewOwnerHandler(properties, roomTypes, inventory, policies, bookings).WithCache(cache),
		cfg.JWTSecret)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			e.Logger.Errorf("http shutdown: %v", err)
		}
		if err := shutdownTracing(sctx); err != nil {
			e.Logger.Errorf("tracing shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	<-stopped
	log.Printf("server stopped")
}

// redisPinger adapts the Redis client to handler.Pinger.
type redisPinger struct{ c *redis.Client }

func (p redisPinger) PingContext(ctx context.Context) error { return p.c.Ping(ctx).Err() }

func logLevel(s string) glog.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return glog.DEBUG
	case "warn", "warning":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	}
	return glog.INFO
}
