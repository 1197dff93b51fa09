package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"flametag/internal/model"
)

func TestAdminService_GenerateTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong key: nothing created", func(t *testing.T) {
		tags := new(mockTagRepo)
		svc := NewAdminService(tags, &stubTokenGen{tokens: []string{"AAAA2222"}}, "real-key")

		created, err := svc.GenerateTokens(ctx, 10, "wrong-key")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Empty(t, created)
		tags.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	})

	t.Run("empty configured key disables admin", func(t *testing.T) {
		svc := NewAdminService(new(mockTagRepo), &stubTokenGen{tokens: []string{"AAAA2222"}}, "")
		_, err := svc.GenerateTokens(ctx, 1, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("best effort: collisions skipped, created tokens returned", func(t *testing.T) {
		tags := new(mockTagRepo)
		gen := &stubTokenGen{tokens: []string{"AAAA2222", "BBBB3333", "CCCC4444"}}
		tags.On("CreateIfAbsent", mock.Anything, "AAAA2222").Return(true, nil).Once()
		tags.On("CreateIfAbsent", mock.Anything, "BBBB3333").Return(false, nil).Once() // коллизия
		tags.On("CreateIfAbsent", mock.Anything, "CCCC4444").Return(true, nil).Once()

		svc := NewAdminService(tags, gen, "real-key")
		created, err := svc.GenerateTokens(ctx, 3, "real-key")
		assert.NoError(t, err)
		assert.Equal(t, []string{"AAAA2222", "CCCC4444"}, created)
		tags.AssertExpectations(t)
	})

	t.Run("count clamped", func(t *testing.T) {
		tags := new(mockTagRepo)
		svc := NewAdminService(tags, &stubTokenGen{tokens: []string{"AAAA2222"}}, "real-key")

		created, err := svc.GenerateTokens(ctx, -5, "real-key")
		assert.NoError(t, err)
		assert.Empty(t, created)
		tags.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	})
}

func TestAdminService_ImportTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong key", func(t *testing.T) {
		svc := NewAdminService(new(mockTagRepo), NewTokenGenerator(), "real-key")
		n, err := svc.ImportTokens(ctx, "AAAA2222", "nope")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Zero(t, n)
	})

	t.Run("filters, normalizes and skips existing", func(t *testing.T) {
		tags := new(mockTagRepo)
		// "AB" отсеян по длине, "ABCDEFGHIJKL" и "ZZ11ZZ11" проходят
		tags.On("FilterExisting", mock.Anything, []string{"ABCDEFGHIJKL", "ZZ11ZZ11"}).
			Return(map[string]struct{}{"ZZ11ZZ11": {}}, nil).Once()
		tags.On("CreateIfAbsent", mock.Anything, "ABCDEFGHIJKL").Return(true, nil).Once()

		svc := NewAdminService(tags, NewTokenGenerator(), "real-key")
		n, err := svc.ImportTokens(ctx, "AB\nabcdefghijkl\n,,,ZZ11ZZ11", "real-key")
		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		tags.AssertExpectations(t)
	})
}

func TestAdminService_ListRecent(t *testing.T) {
	ctx := context.Background()

	tags := new(mockTagRepo)
	tags.On("ListRecent", mock.Anything, 50).Return([]model.Tag{{ID: 2, Token: "BBBB3333"}, {ID: 1, Token: "AAAA2222"}}, nil).Once()

	svc := NewAdminService(tags, NewTokenGenerator(), "real-key")

	// limit вне диапазона откатывается к 50
	got, err := svc.ListRecent(ctx, 0, "real-key")
	assert.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListRecent(ctx, 10, "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseTokenList(t *testing.T) {
	got := ParseTokenList(" ab12 ,\n\nTOOLONGTOOLONGTOOLONGTOOLONGTOOLONG, x,  zz11zz11 ")
	assert.Equal(t, []string{"AB12", "ZZ11ZZ11"}, got)
}
