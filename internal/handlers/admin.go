package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"flametag/internal/service"
)

// AdminHandler — массовая заготовка токенов. Ключ — в заголовке X-Admin-Key.
type AdminHandler struct {
	Admin  *service.AdminService
	Logger *zap.SugaredLogger
}

// NewAdminHandler создаёт админ-хендлер.
func NewAdminHandler(admin *service.AdminService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{Admin: admin, Logger: logger}
}

type GenerateRequest struct {
	// количество не валидируем: сервис сам ограничивает диапазон [0, 5000]
	Count int `json:"count"`
}

type ImportRequest struct {
	Tokens string `json:"tokens" validate:"required"`
}

type AdminTagDTO struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Claimed   bool      `json:"claimed"`
	ScanCount int64     `json:"scan_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *AdminHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrUnauthorized) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	h.Logger.Errorw(op+": service error", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// Generate — создать пачку случайных токенов.
func (h *AdminHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.Admin.GenerateTokens(r.Context(), req.Count, r.Header.Get("X-Admin-Key"))
	if err != nil {
		h.writeServiceError(w, "Generate", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"created": created,
		"count":   len(created),
	})
}

// Import — импорт готового списка токенов (строки/запятые).
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.Admin.ImportTokens(r.Context(), req.Tokens, r.Header.Get("X-Admin-Key"))
	if err != nil {
		h.writeServiceError(w, "Import", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"created": created})
}

// ListTags — последние метки для админ-обзора.
func (h *AdminHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tags, err := h.Admin.ListRecent(r.Context(), limit, r.Header.Get("X-Admin-Key"))
	if err != nil {
		h.writeServiceError(w, "ListTags", err)
		return
	}

	out := make([]AdminTagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, AdminTagDTO{
			ID:        t.ID,
			Token:     t.Token,
			Claimed:   t.IsClaimed(),
			ScanCount: t.ScanCount,
			UpdatedAt: t.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": out})
}
