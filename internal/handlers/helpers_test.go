package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"flametag/internal/config"
	"flametag/internal/handlers"
	"flametag/internal/model"
	"flametag/internal/repo"
	"flametag/internal/service"
)

const testAdminKey = "test-admin-key"

// newTestRouter поднимает полный стек поверх in-memory SQLite.
func newTestRouter(t *testing.T) (http.Handler, repo.TagRepository) {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := db.AutoMigrate(&model.Tag{}, &model.Item{}, &model.FoundMessage{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	cfg := &config.Config{
		AuthSecret: "test-secret",
		AdminKey:   testAdminKey,
		PublicURL:  "https://flametag.test",
	}
	logger := zap.NewNop().Sugar()

	tagRepo := repo.NewTagRepository(db)
	itemRepo := repo.NewItemRepository(db)
	msgRepo := repo.NewFoundMessageRepository(db)

	tagSvc := service.NewTagService(tagRepo, itemRepo, msgRepo,
		service.NewVault(), service.NewGrantSigner(cfg.AuthSecret, service.DefaultGrantTTL))
	adminSvc := service.NewAdminService(tagRepo, service.NewTokenGenerator(), cfg.AdminKey)

	h := handlers.NewHandler(tagSvc, adminSvc, logger, cfg)
	return h.Router, tagRepo
}

func mustCreateTag(t *testing.T, tags repo.TagRepository, token string) {
	t.Helper()
	created, err := tags.CreateIfAbsent(context.Background(), token)
	assert.NoError(t, err)
	assert.True(t, created)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, mod ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		assert.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mod {
		m(req)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}
