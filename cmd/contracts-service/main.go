package main

import (
	"fmt"
	"os"

	"github.com/nurpe/dealership-contracts/internal/auth"
	"github.com/nurpe/dealership-contracts/internal/cache"
	"github.com/nurpe/dealership-contracts/internal/config"
	"github.com/nurpe/dealership-contracts/internal/db"
	"github.com/nurpe/dealership-contracts/internal/excel"
	httphandler "github.com/nurpe/dealership-contracts/internal/http"
	"github.com/nurpe/dealership-contracts/internal/http/middleware"
	"github.com/nurpe/dealership-contracts/internal/logger"
	"github.com/nurpe/dealership-contracts/internal/mailer"
	"github.com/nurpe/dealership-contracts/internal/pdf"
	"github.com/nurpe/dealership-contracts/internal/repository"
	"github.com/nurpe/dealership-contracts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	store := repository.NewStore(database)

	var dashboardCache service.DashboardCache
	if c, err := cache.New(cfg.Dashboard.RedisAddr, cfg.Dashboard.CacheTTL, log); err != nil {
		log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without it")
	} else if c != nil {
		dashboardCache = c
	}

	var notifier service.Notifier
	if m := mailer.New(cfg.SMTP); m != nil {
		notifier = m
	} else {
		log.Warn().Msg("SMTP not configured, document notifications disabled")
	}

	contractService := service.NewContractService(store, notifier, pdf.NewGenerator(), log)
	dashboardService := service.NewDashboardService(store, dashboardCache, excel.NewGenerator(), log)
	documentService := service.NewDocumentService(store, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, dashboardService, documentService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
