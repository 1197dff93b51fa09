package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"flametag/internal/model"
	"flametag/internal/repo"
)

// MaxGenerateCount — верхняя граница одной генерации.
const MaxGenerateCount = 5000

// Допустимая длина импортируемого токена.
const (
	MinTokenLength = 4
	MaxTokenLength = 32
)

// AdminService — массовая заготовка токенов за статическим админ-ключом.
type AdminService struct {
	tags     repo.TagRepository
	gen      TokenGenerator
	adminKey string
}

// NewAdminService создаёт админ-сервис. Пустой adminKey выключает все операции.
func NewAdminService(tags repo.TagRepository, gen TokenGenerator, adminKey string) *AdminService {
	return &AdminService{tags: tags, gen: gen, adminKey: adminKey}
}

func (s *AdminService) checkKey(key string) error {
	if s.adminKey == "" || key == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// GenerateTokens создаёт до count новых меток со случайными токенами.
// Best effort: коллизия с существующим токеном пропускается, не повторяется.
// Возвращает именно те токены, что были созданы.
func (s *AdminService) GenerateTokens(ctx context.Context, count int, adminKey string) ([]string, error) {
	if err := s.checkKey(adminKey); err != nil {
		return nil, err
	}

	if count < 0 {
		count = 0
	}
	if count > MaxGenerateCount {
		count = MaxGenerateCount
	}

	created := make([]string, 0, count)
	for i := 0; i < count; i++ {
		token, err := s.gen.NewToken()
		if err != nil {
			return created, err
		}
		ok, err := s.tags.CreateIfAbsent(ctx, token)
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, token)
		}
	}
	return created, nil
}

// ImportTokens разбирает сырой список (переводы строк и запятые),
// нормализует и вставляет токены длиной 4–32, пропуская существующие.
// Возвращает число фактически созданных.
func (s *AdminService) ImportTokens(ctx context.Context, raw, adminKey string) (int, error) {
	if err := s.checkKey(adminKey); err != nil {
		return 0, err
	}

	tokens := ParseTokenList(raw)
	existing, err := s.tags.FilterExisting(ctx, tokens)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, token := range tokens {
		if _, ok := existing[token]; ok {
			continue
		}
		// вставка всё равно идемпотентна: дубликаты внутри самого списка
		// отсеет OnConflict
		ok, err := s.tags.CreateIfAbsent(ctx, token)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// ListRecent возвращает последние созданные метки для админ-обзора.
func (s *AdminService) ListRecent(ctx context.Context, limit int, adminKey string) ([]model.Tag, error) {
	if err := s.checkKey(adminKey); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.tags.ListRecent(ctx, limit)
}

// ParseTokenList нормализует сырой список токенов: разделители — переводы
// строк и запятые, trim, верхний регистр, фильтр по длине.
func ParseTokenList(raw string) []string {
	raw = strings.ReplaceAll(raw, ",", "\n")
	tokens := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		token := strings.ToUpper(strings.TrimSpace(line))
		if len(token) < MinTokenLength || len(token) > MaxTokenLength {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
