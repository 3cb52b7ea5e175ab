package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/saveplate/saveplate-backend/api/routes"
	"github.com/saveplate/saveplate-backend/internal/cart"
	"github.com/saveplate/saveplate-backend/internal/checkout"
	"github.com/saveplate/saveplate-backend/internal/foods"
	"github.com/saveplate/saveplate-backend/internal/orders"
	"github.com/saveplate/saveplate-backend/internal/stores"
	"github.com/saveplate/saveplate-backend/pkg/config"
	"github.com/saveplate/saveplate-backend/pkg/db"
	"github.com/saveplate/saveplate-backend/pkg/logger"
	"github.com/saveplate/saveplate-backend/pkg/migrate"
	"github.com/saveplate/saveplate-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storeRepo := stores.NewRepository(dbClient.DB())
	foodRepo := foods.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	resolver := stores.NewResolver(storeRepo, logg)

	storeService, err := stores.NewService(storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}
	foodService, err := foods.NewService(foodRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create food service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, foodRepo, resolver)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orderRepo, foodRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	engine, err := checkout.NewEngine(dbClient, foodRepo, orderRepo, cartRepo, resolver, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout engine", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(engine, cartRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient, routes.Services{
			Foods:    foodService,
			Cart:     cartService,
			Checkout: checkoutService,
			Orders:   orderService,
			Stores:   storeService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
