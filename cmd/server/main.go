package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dojangkok-ai/internal/config"
	"dojangkok-ai/internal/handler"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wiring
	container, err := config.NewContainer(ctx)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	cfg := container.GetConfig()
	logger := container.GetLogger()

	// Handlers
	checklistHandler := handler.NewChecklistHandler(
		container.ChecklistService,
		container.Dispatcher,
		container.Background,
		logger,
	)

	contractHandler := handler.NewContractHandler(
		container.ContractService,
		container.Dispatcher,
		container.Background,
		container.FileFetcher,
		cfg.GetMaxFiles(),
		cfg.GetMaxFileSize(),
		logger,
	)

	authMiddleware := handler.NewAuthMiddleware(cfg.GetAPIToken(), logger)

	// Router
	router := handler.NewRouter(
		checklistHandler,
		contractHandler,
		authMiddleware.Middleware,
		handler.RequestLogger(logger),
		cfg.GetCORSAllowedOrigins(),
	)

	server := &http.Server{
		Addr:    ":" + cfg.GetServerPort(),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := container.Background.Wait(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := container.Close(); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", err)
		os.Exit(1)
	}
	logger.Info("Server exited")
}
