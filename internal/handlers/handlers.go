package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"flametag/internal/config"
	"flametag/internal/middleware"
	"flametag/internal/service"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	tagService *service.TagService,
	adminService *service.AdminService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Edit-Grant", "X-Admin-Key"},
	}))

	// Handlers
	tagHandler := NewTagHandler(tagService, logger, config)
	adminHandler := NewAdminHandler(adminService, logger)

	// Tag lifecycle routes
	r.Get("/t/{token}", tagHandler.Resolve)
	r.Post("/t/{token}/claim", tagHandler.Claim)
	r.Post("/t/{token}/edit/unlock", tagHandler.UnlockEdit)
	r.Post("/t/{token}/edit", tagHandler.Edit)
	r.Post("/t/{token}/found", tagHandler.SubmitFound)
	r.Post("/t/{token}/unlock", tagHandler.UnlockAndRead)

	// Admin routes
	r.Post("/admin/generate", adminHandler.Generate)
	r.Post("/admin/import", adminHandler.Import)
	r.Get("/admin/tags", adminHandler.ListTags)

	return &Handler{Router: r}
}
