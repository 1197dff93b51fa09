package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"flametag/internal/model"
	"flametag/internal/repo"
)

// моки для repo-контрактов

type mockTagRepo struct{ mock.Mock }

func (m *mockTagRepo) CreateIfAbsent(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockTagRepo) GetByToken(ctx context.Context, token string) (*model.Tag, error) {
	args := m.Called(ctx, token)
	if t, ok := args.Get(0).(*model.Tag); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTagRepo) BumpScan(ctx context.Context, tagID int64) error {
	args := m.Called(ctx, tagID)
	return args.Error(0)
}

func (m *mockTagRepo) ClaimOnce(ctx context.Context, tagID int64, pinHash, publicMsg, privateMsg string, now time.Time) (bool, error) {
	args := m.Called(ctx, tagID, pinHash, publicMsg, privateMsg, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockTagRepo) UpdateMessages(ctx context.Context, tagID int64, updates map[string]any) error {
	args := m.Called(ctx, tagID, updates)
	return args.Error(0)
}

func (m *mockTagRepo) TouchFound(ctx context.Context, tagID int64, note string, now time.Time) error {
	args := m.Called(ctx, tagID, note, now)
	return args.Error(0)
}

func (m *mockTagRepo) ListRecent(ctx context.Context, limit int) ([]model.Tag, error) {
	args := m.Called(ctx, limit)
	if v, ok := args.Get(0).([]model.Tag); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTagRepo) FilterExisting(ctx context.Context, tokens []string) (map[string]struct{}, error) {
	args := m.Called(ctx, tokens)
	if v, ok := args.Get(0).(map[string]struct{}); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.TagRepository = (*mockTagRepo)(nil)

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) ListByTag(ctx context.Context, tagID int64) ([]model.Item, error) {
	args := m.Called(ctx, tagID)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) SeedDefaults(ctx context.Context, tagID int64) (bool, error) {
	args := m.Called(ctx, tagID)
	return args.Bool(0), args.Error(1)
}

func (m *mockItemRepo) ReplaceAll(ctx context.Context, tagID int64, labels []string) ([]model.Item, error) {
	args := m.Called(ctx, tagID, labels)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.ItemRepository = (*mockItemRepo)(nil)

type mockMsgRepo struct{ mock.Mock }

func (m *mockMsgRepo) Create(ctx context.Context, msg *model.FoundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMsgRepo) FetchAndMarkRead(ctx context.Context, tagID int64) ([]model.FoundMessage, error) {
	args := m.Called(ctx, tagID)
	if v, ok := args.Get(0).([]model.FoundMessage); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMsgRepo) CountUnread(ctx context.Context, tagID int64) (int64, error) {
	args := m.Called(ctx, tagID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.FoundMessageRepository = (*mockMsgRepo)(nil)

// стабовый генератор с предсказуемой последовательностью токенов
type stubTokenGen struct {
	tokens []string
	i      int
}

func (g *stubTokenGen) NewToken() (string, error) {
	t := g.tokens[g.i%len(g.tokens)]
	g.i++
	return t, nil
}
