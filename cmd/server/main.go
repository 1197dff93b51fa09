package main

import (
	"net/http"

	"go.uber.org/zap"

	"flametag/internal/config"
	"flametag/internal/handlers"
	"flametag/internal/middleware"
	"flametag/internal/repo"
	"flametag/internal/service"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	tagRepo := repo.NewTagRepository(gormDB)
	itemRepo := repo.NewItemRepository(gormDB)
	msgRepo := repo.NewFoundMessageRepository(gormDB)

	vault := service.NewVault()
	grants := service.NewGrantSigner(cfg.AuthSecret, service.DefaultGrantTTL)
	tagService := service.NewTagService(tagRepo, itemRepo, msgRepo, vault, grants)
	adminService := service.NewAdminService(tagRepo, service.NewTokenGenerator(), cfg.AdminKey)

	if cfg.AdminKey == "" {
		sugar.Warnw("ADMIN_KEY is empty, admin operations are disabled")
	}

	h := handlers.NewHandler(tagService, adminService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"PublicURL", cfg.PublicURL,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
