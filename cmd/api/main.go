package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/folio/internal/category"
	categoryStore "github.com/MrJamesThe3rd/folio/internal/category/store"
	"github.com/MrJamesThe3rd/folio/internal/chat"
	"github.com/MrJamesThe3rd/folio/internal/chat/sqlagent"
	"github.com/MrJamesThe3rd/folio/internal/config"
	"github.com/MrJamesThe3rd/folio/internal/database"
	"github.com/MrJamesThe3rd/folio/internal/export"
	folioHttp "github.com/MrJamesThe3rd/folio/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/folio/internal/http/category"
	chatHandler "github.com/MrJamesThe3rd/folio/internal/http/chat"
	exportHandler "github.com/MrJamesThe3rd/folio/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/folio/internal/http/importcsv"
	portfolioHandler "github.com/MrJamesThe3rd/folio/internal/http/portfolio"
	"github.com/MrJamesThe3rd/folio/internal/importer"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
	portfolioStore "github.com/MrJamesThe3rd/folio/internal/portfolio/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var agent chat.Agent
	if cfg.Chat.APIKey != "" {
		agent = sqlagent.New(sqlagent.Config{
			APIKey:        cfg.Chat.APIKey,
			BaseURL:       cfg.Chat.BaseURL,
			Model:         cfg.Chat.Model,
			MaxIterations: cfg.Chat.MaxIterations,
		}, sqlagent.NewExecutor(db, cfg.Chat.MaxRows))
	} else {
		slog.Warn("OPENAI_API_KEY not set, chat is disabled")
	}

	var (
		categoryService  = category.NewService(categoryStore.New(db))
		portfolioService = portfolio.NewService(portfolioStore.New(db))
		importService    = importer.NewService(categoryService, portfolioService)
		exportService    = export.NewService(portfolioService)
		chatAdapter      = chat.NewAdapter(agent)
	)

	var (
		categoryH  = categoryHandler.NewHandler(categoryService)
		portfolioH = portfolioHandler.NewHandler(portfolioService)
		chatH      = chatHandler.NewHandler(chatAdapter, chat.NewRegistry())
		importH    = importHandler.NewHandler(importService)
		exportH    = exportHandler.NewHandler(exportService, portfolioService)
	)

	router := folioHttp.New(folioHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Server.JWTSecret,
	}, categoryH, portfolioH, chatH, importH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// The chat agent may take several model round trips.
		WriteTimeout: cfg.Server.Timeout * 4,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "app", cfg.App.Name, "chat_enabled", chatAdapter.Ready())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
