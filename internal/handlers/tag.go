package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"flametag/internal/config"
	"flametag/internal/middleware"
	"flametag/internal/model"
	"flametag/internal/service"
)

var validate = validator.New()

// TagHandler — JSON-обвязка движка жизненного цикла метки.
type TagHandler struct {
	Tags   *service.TagService
	Logger *zap.SugaredLogger
	Config *config.Config
}

// NewTagHandler создаёт хендлер меток.
func NewTagHandler(tags *service.TagService, logger *zap.SugaredLogger, cfg *config.Config) *TagHandler {
	return &TagHandler{Tags: tags, Logger: logger, Config: cfg}
}

// --- DTO ---

type ItemDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type TagDTO struct {
	Token         string    `json:"token"`
	Claimed       bool      `json:"claimed"`
	PublicMessage string    `json:"public_message,omitempty"`
	ScanCount     int64     `json:"scan_count"`
	UpdatedAt     time.Time `json:"updated_at"`
	Items         []ItemDTO `json:"items"`
	Unread        int64     `json:"unread,omitempty"`
	URL           string    `json:"url"`
}

type FoundMessageDTO struct {
	ID            string    `json:"id"`
	ItemLabel     string    `json:"item_label"`
	Note          string    `json:"note"`
	FinderName    string    `json:"finder_name,omitempty"`
	FinderContact string    `json:"finder_contact,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type ClaimRequest struct {
	PublicMessage  string `json:"public_message"`
	PrivateMessage string `json:"private_message"`
	PIN            string `json:"pin" validate:"required"`
}

// PINRequest без validate-тега: пустой PIN — ошибка учётных данных
// движка (401), а не ошибка формата запроса.
type PINRequest struct {
	PIN string `json:"pin"`
}

type EditRequest struct {
	PublicMessage  string `json:"public_message"`
	PrivateMessage string `json:"private_message"`
	Items          string `json:"items"`
}

type FoundRequest struct {
	Note          string `json:"note" validate:"required"`
	ItemID        string `json:"item_id"`
	FinderName    string `json:"finder_name"`
	FinderContact string `json:"finder_contact"`
}

func (h *TagHandler) tagDTO(tag *model.Tag, items []model.Item, unread int64) TagDTO {
	dto := TagDTO{
		Token:         tag.Token,
		Claimed:       tag.IsClaimed(),
		PublicMessage: tag.PublicMessage,
		ScanCount:     tag.ScanCount,
		UpdatedAt:     tag.UpdatedAt,
		Items:         make([]ItemDTO, 0, len(items)),
		Unread:        unread,
		URL:           h.Config.PublicURL + "/t/" + tag.Token,
	}
	for _, it := range items {
		dto.Items = append(dto.Items, ItemDTO{ID: it.ID, Label: it.Label})
	}
	return dto
}

func messageDTOs(msgs []model.FoundMessage) []FoundMessageDTO {
	out := make([]FoundMessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FoundMessageDTO{
			ID:            m.ID,
			ItemLabel:     m.ItemLabel,
			Note:          m.Note,
			FinderName:    m.FinderName,
			FinderContact: m.FinderContact,
			IsRead:        m.IsRead,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out
}

// writeServiceError мапит доменные ошибки на HTTP-статусы.
// Ошибки хранилища — всегда 500, без подмены на доменные.
func (h *TagHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTagNotFound):
		http.Error(w, "tag not found", http.StatusNotFound)
	case errors.Is(err, service.ErrAlreadyClaimed), errors.Is(err, service.ErrNotClaimed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidPIN):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		h.Logger.Errorw(op+": service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// --- Handlers ---

// Resolve — сканирование метки: публичная карточка + позиции.
func (h *TagHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	res, err := h.Tags.Resolve(r.Context(), token)
	if err != nil {
		h.writeServiceError(w, "Resolve", err)
		return
	}

	writeJSON(w, http.StatusOK, h.tagDTO(res.Tag, res.Items, res.Unread))
}

// Claim — владелец заявляет метку.
func (h *TagHandler) Claim(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req ClaimRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.Tags.Claim(r.Context(), token, req.PublicMessage, req.PrivateMessage, req.PIN)
	if err != nil {
		h.writeServiceError(w, "Claim", err)
		return
	}

	writeJSON(w, http.StatusCreated, h.tagDTO(tag, nil, 0))
}

// UnlockEdit — проверка PIN и выдача edit-гранта (cookie + тело ответа).
func (h *TagHandler) UnlockEdit(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req PINRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	grant, err := h.Tags.UnlockEdit(r.Context(), token, req.PIN)
	if err != nil {
		h.writeServiceError(w, "UnlockEdit", err)
		return
	}

	middleware.SetEditCookie(w, service.NormalizeToken(token), grant, service.DefaultGrantTTL)
	writeJSON(w, http.StatusOK, map[string]any{"grant": grant})
}

// Edit — сохранение правок владельца; требует edit-грант
// (cookie или заголовок X-Edit-Grant).
func (h *TagHandler) Edit(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req EditRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	grant := r.Header.Get("X-Edit-Grant")
	if grant == "" {
		grant = middleware.GetEditGrant(r, service.NormalizeToken(token))
	}

	tag, items, err := h.Tags.Edit(r.Context(), token, grant, service.EditParams{
		PublicMessage:  req.PublicMessage,
		PrivateMessage: req.PrivateMessage,
		ItemsText:      req.Items,
	})
	if err != nil {
		h.writeServiceError(w, "Edit", err)
		return
	}

	writeJSON(w, http.StatusOK, h.tagDTO(tag, items, 0))
}

// SubmitFound — нашедший оставляет сообщение владельцу.
func (h *TagHandler) SubmitFound(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req FoundRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.Tags.SubmitFound(r.Context(), token, service.FoundParams{
		Note:          req.Note,
		ItemID:        req.ItemID,
		FinderName:    req.FinderName,
		FinderContact: req.FinderContact,
	})
	if err != nil {
		h.writeServiceError(w, "SubmitFound", err)
		return
	}

	writeJSON(w, http.StatusCreated, messageDTOs([]model.FoundMessage{*msg})[0])
}

// UnlockAndRead — владелец открывает сообщения по PIN;
// возвращённые непрочитанные помечаются прочитанными.
func (h *TagHandler) UnlockAndRead(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req PINRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, msgs, err := h.Tags.UnlockAndRead(r.Context(), token, req.PIN)
	if err != nil {
		h.writeServiceError(w, "UnlockAndRead", err)
		return
	}

	// приватное сообщение владельца показывается только после PIN
	writeJSON(w, http.StatusOK, map[string]any{
		"private_message": tag.PrivateMessage,
		"messages":        messageDTOs(msgs),
	})
}
