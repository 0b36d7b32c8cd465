// README: Entry point; loads config, wires module services, starts HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"unipool/internal/config"
	httptransport "unipool/internal/http"
	"unipool/internal/infra"
	"unipool/internal/logging"
	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fare"
	"unipool/internal/modules/fleet"
	"unipool/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Error("db init failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	verifier := infra.NewJWTVerifier(cfg.Auth.JWTSecret)

	catalogSvc := catalog.NewService(catalog.NewStore(dbPool), logger)
	fleetSvc := fleet.NewService(fleet.NewStore(dbPool), logger)
	fareSvc := fare.NewService(catalogSvc, logger)

	rideCache := ride.NewCache(redisClient, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)
	rideSvc := ride.NewService(ride.NewStore(dbPool), fleetSvc, fareSvc, rideCache, logger)

	gin.SetMode(gin.ReleaseMode)
	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Catalog:  catalogSvc,
		Fleet:    fleetSvc,
		Fares:    fareSvc,
		Rides:    rideSvc,
		Verifier: verifier,
		Log:      logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
