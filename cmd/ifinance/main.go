package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ifinance-app/ifinance/internal/accounts"
	"github.com/ifinance-app/ifinance/internal/app"
	"github.com/ifinance-app/ifinance/internal/chart"
	"github.com/ifinance-app/ifinance/internal/platform/cache"
	"github.com/ifinance-app/ifinance/internal/platform/db"
	"github.com/ifinance-app/ifinance/internal/posting"
	"github.com/ifinance-app/ifinance/internal/reports"
	"github.com/ifinance-app/ifinance/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The report cache is an optimization; the server runs without it.
	var reportCache *reports.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
	} else {
		reportCache = reports.NewCache(redisClient, cfg.ReportCacheTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	chartRepo := chart.NewRepository(dbpool)
	chartService := chart.NewService(chartRepo)
	chartHandler := chart.NewHandler(logger, chartService)

	accountsRepo := accounts.NewRepository(dbpool)
	accountsService := accounts.NewService(accountsRepo).WithCrossOwnerGroups(cfg.AllowCrossOwnerGroups)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	postingRepo := posting.NewRepository(dbpool)
	postingService := posting.NewService(postingRepo, reportCache)
	postingHandler := posting.NewHandler(logger, postingService)

	reportsRepo := reports.NewRepository(dbpool)
	reportsService := reports.NewService(reportsRepo, reportCache)
	reportsHandler := reports.NewHandler(reportsService)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		ChartHandler:    chartHandler,
		AccountsHandler: accountsHandler,
		PostingHandler:  postingHandler,
		ReportsHandler:  reportsHandler,
		UsersHandler:    usersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
