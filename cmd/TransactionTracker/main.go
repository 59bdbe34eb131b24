package main

import (
	"context"
	"errors"
	"github.com/sebuszqo/TransactionTracker/internal/config"
	database "github.com/sebuszqo/TransactionTracker/internal/db"
	"github.com/sebuszqo/TransactionTracker/internal/finance/application"
	"github.com/sebuszqo/TransactionTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/TransactionTracker/internal/finance/interfaces"
	"github.com/sebuszqo/TransactionTracker/internal/logger"
	"github.com/sebuszqo/TransactionTracker/internal/server"
	"golang.org/x/sync/errgroup"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if !cfg.EnvFileLoaded {
		log.Info().Msg("No .env file found, continuing with system environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Missing configuration, update to start server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.Database())
	if err != nil {
		log.Fatal().Err(err).Msg("Could not initialize database")
	}
	defer dbService.Close()
	log.Info().Msg("Connected to database")

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
			log.Fatal().Err(err).Msg("Could not run database migrations")
		}
		log.Info().Msg("Database schema is up to date")
	}

	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	viewRepo := infrastructure.NewViewRepository(dbService.DB)

	transactionService := application.NewTransactionService(transactionRepo)
	viewService := application.NewViewService(viewRepo)

	transactionHandler := interfaces.NewTransactionHandler(transactionService, server.RespondJSON, server.RespondError)
	viewHandler := interfaces.NewViewHandler(viewService, server.RespondJSON, server.RespondError)

	srv := server.NewServer(transactionHandler, viewHandler, dbService, log, cfg.CORSAllowedOrigin)
	srv.RegisterRoutes()

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", httpServer.Addr).Msg("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return
	}
	log.Info().Msg("Server stopped")
}
