package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"twitter-api/config"
	"twitter-api/config/db"
	"twitter-api/controller"
	"twitter-api/logger"
	"twitter-api/service"
	"twitter-api/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg, closer, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()

	var st store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logg.Warn("using in-memory store, data is lost on restart")
		st = store.NewMemory()
	default:
		client, err := db.Connect(ctx, cfg, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Disconnect(client, cfg); err != nil {
				logg.Error("disconnect from MongoDB", slog.Any("error", err))
			}
		}()
		st = store.NewMongo(db.Database(client, cfg))
	}

	svc := service.New(st, logg, service.Options{IdempotentFollow: cfg.FollowIdempotent})
	router := controller.NewRouter(controller.New(svc, logg), controller.RouterOptions{Metrics: cfg.MetricsEnabled})

	return serve(ctx, cfg, logg, router)
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down
// within cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg *config.Config, logg *slog.Logger, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("starting HTTP server", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logg.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logg.Info("server stopped gracefully")
	return nil
}
