package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/srgjo27/venue_booking/internal/adapter/handler"
	"github.com/srgjo27/venue_booking/internal/adapter/lock"
	"github.com/srgjo27/venue_booking/internal/adapter/ratecard"
	"github.com/srgjo27/venue_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/venue_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/venue_booking/internal/core/ports"
	"github.com/srgjo27/venue_booking/internal/core/services"
	"github.com/srgjo27/venue_booking/internal/platform/config"
	"github.com/srgjo27/venue_booking/internal/platform/database"
	"github.com/srgjo27/venue_booking/internal/platform/logger"
)

type backends struct {
	catalog  ports.Catalog
	index    ports.AvailabilityIndex
	rates    ports.RateConfigSource
	bookings ports.BookingRepository
	locker   ports.Locker
	closers  []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.NewLogger(cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var card *ratecard.Source
	if cfg.RateCardFile != "" {
		card, err = ratecard.Load(cfg.RateCardFile, log)
		if err != nil {
			log.Fatal("Failed to load rate card", zap.String("file", cfg.RateCardFile), zap.Error(err))
		}
		card.Watch()
	}

	b, err := setupBackends(ctx, cfg, card, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer func() {
		for _, c := range b.closers {
			if err := c(); err != nil {
				log.Warn("Failed to close backend", zap.Error(err))
			}
		}
	}()

	svcCfg := services.DefaultConfig()
	svcCfg.LockWait = cfg.LockWaitTimeout
	svcCfg.MaxAttempts = cfg.AdmissionAttempts
	svcCfg.HoldTTL = cfg.HoldTTL

	bookingService := services.NewBookingService(b.catalog, b.index, b.rates, b.bookings, b.locker, svcCfg, log)

	go bookingService.RunHoldSweeper(ctx, cfg.HoldSweepInterval)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(handler.RequestLogger(log))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handler.NewBookingHandler(bookingService).RegisterRoutes(router.Group("/api/v1"))

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server startup failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Server exiting")
}

// setupBackends picks Postgres and Redis, or the in-memory store seeded from
// the rate card when DB_HOST=memory. A rate card always overrides rates.
func setupBackends(ctx context.Context, cfg *config.Config, card *ratecard.Source, log *zap.Logger) (*backends, error) {
	if cfg.UseMemoryStore() {
		log.Warn("Running with the in-memory store; bookings are lost on restart")
		store := memory.NewStore()
		if card != nil {
			tenants, resources, err := card.Catalog()
			if err != nil {
				return nil, err
			}
			for _, t := range tenants {
				store.AddTenant(t)
			}
			for _, r := range resources {
				if err := store.AddResource(r); err != nil {
					return nil, fmt.Errorf("seed catalog: %w", err)
				}
			}
			log.Info("Seeded in-memory catalog", zap.Int("tenants", len(tenants)), zap.Int("resources", len(resources)))
		}
		b := &backends{
			catalog:  store,
			index:    store,
			rates:    store,
			bookings: store,
			locker:   lock.NewMemoryLocker(),
		}
		if card != nil {
			b.rates = card
		}
		return b, nil
	}

	db, err := database.NewPostgresDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db, log); err != nil {
			db.Close()
			return nil, err
		}
	}

	log.Info("Connecting to Redis", zap.String("addr", cfg.RedisAddr()))
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
		DB:   0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Redis connected")

	resourceRepo := postgres.NewResourceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db, cfg.LockWaitTimeout)

	b := &backends{
		catalog:  resourceRepo,
		index:    bookingRepo,
		rates:    resourceRepo,
		bookings: bookingRepo,
		locker:   lock.NewRedisLocker(redisClient, cfg.LockTTL, log),
		closers:  []func() error{redisClient.Close, db.Close},
	}
	if card != nil {
		b.rates = card
	}
	return b, nil
}
