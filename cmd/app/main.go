package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tutor-service/internal/catalog"
	"tutor-service/internal/config"
	bookingCreate "tutor-service/internal/http-server/handlers/bookings/create"
	bookingList "tutor-service/internal/http-server/handlers/bookings/list"
	goalList "tutor-service/internal/http-server/handlers/goals/list"
	goalTutors "tutor-service/internal/http-server/handlers/goals/tutors"
	requestCreate "tutor-service/internal/http-server/handlers/requests/create"
	requestList "tutor-service/internal/http-server/handlers/requests/list"
	tutorGet "tutor-service/internal/http-server/handlers/tutors/get"
	tutorList "tutor-service/internal/http-server/handlers/tutors/list"
	"tutor-service/internal/lock"
	"tutor-service/internal/models"
	svc "tutor-service/internal/service"
	"tutor-service/internal/storage/file"
	"tutor-service/internal/storage/postgres"
	"tutor-service/pkg/handlers/slogpretty"
	"tutor-service/pkg/middleware/mwlogger"
	"tutor-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	ctx := context.Background()

	store := catalog.New(log, file.NewSnapshotStore(cfg.Storage.CatalogPath), catalog.DefaultCatalog)
	if _, err := store.Load(ctx); err != nil {
		if errors.Is(err, models.ErrCorruptData) {
			log.Error("Catalog snapshot is corrupt, refusing to start",
				slog.String("path", cfg.Storage.CatalogPath), sl.Err(err))
		} else {
			log.Error("Failed to load catalog", sl.Err(err))
		}
		os.Exit(1)
	}

	var (
		ledger  svc.Ledger
		storage *postgres.Storage
	)
	if cfg.Storage.PostgresDSN != "" {
		var err error
		storage, err = postgres.New(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			log.Error("Failed to init postgres ledger", sl.Err(err))
			os.Exit(1)
		}
		ledger = storage
		log.Info("Using postgres ledger")
	} else {
		ledger = file.NewLedger(cfg.Storage.BookingsPath, cfg.Storage.RequestsPath)
		log.Info("Using file ledger",
			slog.String("bookings", cfg.Storage.BookingsPath),
			slog.String("requests", cfg.Storage.RequestsPath))
	}

	var (
		locker    lock.Locker
		redisLock *lock.RedisLock
	)
	if cfg.Redis.Addr != "" {
		var err error
		redisLock, err = lock.NewRedisLock(cfg.Redis.Addr)
		if err != nil {
			log.Error("Failed to init redis lock", sl.Err(err))
			os.Exit(1)
		}
		locker = redisLock
		log.Info("Using redis reservation lock", slog.String("addr", cfg.Redis.Addr))
	} else {
		locker = lock.NewLocal()
	}

	service := svc.NewService(log, store, ledger, locker, svc.Options{
		LockTTL:   cfg.Reservation.LockTTL,
		LockRetry: cfg.Reservation.LockRetry,
	})

	router := newRouter(log, service)

	serv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.HTTPServer.Address))
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	}

	if redisLock != nil {
		if err := redisLock.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

type Service interface {
	goalList.GoalLister
	goalTutors.GoalTutorLister
	tutorList.TutorLister
	tutorGet.TutorGetter
	bookingCreate.Reserver
	bookingList.BookingLister
	requestCreate.RequestSubmitter
	requestList.RequestLister
}

func newRouter(log *slog.Logger, service Service) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Goals
	router.Get("/goals", goalList.New(log, service))
	router.Get("/goals/{goal}/tutors", goalTutors.New(log, service))

	// Tutors
	router.Get("/tutors", tutorList.New(log, service))
	router.Get("/tutors/{id}", tutorGet.New(log, service))

	// Bookings
	router.Post("/bookings", bookingCreate.New(log, service))
	router.Get("/bookings", bookingList.New(log, service))

	// Contact requests
	router.Post("/requests", requestCreate.New(log, service))
	router.Get("/requests", requestList.New(log, service))

	return router
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
