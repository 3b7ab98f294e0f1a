package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/daftarhq/daftar/internal/config"
	"github.com/daftarhq/daftar/internal/database"
	"github.com/daftarhq/daftar/internal/export"
	daftarHttp "github.com/daftarhq/daftar/internal/http"
	authHandler "github.com/daftarhq/daftar/internal/http/auth"
	exportHandler "github.com/daftarhq/daftar/internal/http/export"
	importHandler "github.com/daftarhq/daftar/internal/http/importcsv"
	orderHandler "github.com/daftarhq/daftar/internal/http/order"
	summaryHandler "github.com/daftarhq/daftar/internal/http/summary"
	userHandler "github.com/daftarhq/daftar/internal/http/user"
	"github.com/daftarhq/daftar/internal/importer"
	"github.com/daftarhq/daftar/internal/order"
	orderStore "github.com/daftarhq/daftar/internal/order/store"
	"github.com/daftarhq/daftar/internal/summary"
	"github.com/daftarhq/daftar/internal/user"
	userStore "github.com/daftarhq/daftar/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		orderService   = order.NewService(orderStore.New(db))
		userService    = user.NewService(userStore.New(db), cfg.Auth.SuperAdmin)
		importService  = importer.NewService()
		exportService  = export.NewService(export.NewHTTPFontSource(cfg.Export.FontURL))
		summaryService = summary.New(summary.Config{
			APIKey: cfg.Summary.APIKey,
			Model:  cfg.Summary.Model,
		})
	)

	var (
		authH    = authHandler.NewHandler(userService, cfg.Auth.JWTSecret)
		orderH   = orderHandler.NewHandler(orderService)
		importH  = importHandler.NewHandler(importService, orderService)
		exportH  = exportHandler.NewHandler(orderService, exportService)
		summaryH = summaryHandler.NewHandler(orderService, summaryService)
		userH    = userHandler.NewHandler(userService)
	)

	router := daftarHttp.New(cfg.Auth.JWTSecret, authH, orderH, importH, exportH, summaryH, userH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
