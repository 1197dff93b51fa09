package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"flametag/internal/model"
	"flametag/internal/repo"
)

// Сообщения по умолчанию при Claim без текста.
const (
	DefaultPublicMessage  = "🔥 This is owned. Please return it."
	DefaultPrivateMessage = "Thanks for finding this."
)

// MinPINLength — минимальная длина PIN после trim.
const MinPINLength = 4

// MaxItemLines — максимум позиций у одной метки.
const MaxItemLines = 20

// TagService — движок жизненного цикла метки: Unclaimed → Claimed строго
// один раз, мутации владельца за PIN/грантом, сообщения нашедших.
type TagService struct {
	tags   repo.TagRepository
	items  repo.ItemRepository
	msgs   repo.FoundMessageRepository
	vault  *Vault
	grants *GrantSigner
}

// NewTagService создаёт движок жизненного цикла.
func NewTagService(
	tags repo.TagRepository,
	items repo.ItemRepository,
	msgs repo.FoundMessageRepository,
	vault *Vault,
	grants *GrantSigner,
) *TagService {
	return &TagService{tags: tags, items: items, msgs: msgs, vault: vault, grants: grants}
}

// NormalizeToken приводит токен к каноническому виду: trim + верхний регистр.
func NormalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// ResolveResult — результат сканирования метки.
type ResolveResult struct {
	Tag    *model.Tag
	Items  []model.Item
	Unread int64
}

// Resolve ищет метку по токену, инкрементирует счётчик сканирований
// и досоздаёт стартовые позиции для заявленной метки без позиций.
func (s *TagService) Resolve(ctx context.Context, token string) (*ResolveResult, error) {
	tag, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.tags.BumpScan(ctx, tag.ID); err != nil {
		return nil, err
	}
	tag.ScanCount++

	res := &ResolveResult{Tag: tag}

	if tag.IsClaimed() {
		if _, err := s.items.SeedDefaults(ctx, tag.ID); err != nil {
			return nil, err
		}
		unread, err := s.msgs.CountUnread(ctx, tag.ID)
		if err != nil {
			return nil, err
		}
		res.Unread = unread
	}

	items, err := s.items.ListByTag(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	res.Items = items

	return res, nil
}

// Claim заявляет метку: единственный переход Unclaimed → Claimed.
// Проверка PIN идёт до любых мутаций; при гонке выигрывает ровно один вызов.
func (s *TagService) Claim(ctx context.Context, token, publicMsg, privateMsg, pin string) (*model.Tag, error) {
	pin = strings.TrimSpace(pin)
	if len(pin) < MinPINLength {
		return nil, ErrInvalidInput
	}

	tag, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if tag.IsClaimed() {
		return nil, ErrAlreadyClaimed
	}

	hash, err := s.vault.Hash(pin)
	if err != nil {
		return nil, err
	}

	publicMsg = strings.TrimSpace(publicMsg)
	if publicMsg == "" {
		publicMsg = DefaultPublicMessage
	}
	privateMsg = strings.TrimSpace(privateMsg)
	if privateMsg == "" {
		privateMsg = DefaultPrivateMessage
	}

	now := time.Now().UTC()
	claimed, err := s.tags.ClaimOnce(ctx, tag.ID, hash, publicMsg, privateMsg, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// условный UPDATE не сработал — кто-то успел раньше
		return nil, ErrAlreadyClaimed
	}

	if _, err := s.items.SeedDefaults(ctx, tag.ID); err != nil {
		return nil, err
	}

	tag.OwnerPINHash = hash
	tag.PublicMessage = publicMsg
	tag.PrivateMessage = privateMsg
	tag.ClaimedAt = &now
	tag.UpdatedAt = now
	return tag, nil
}

// UnlockEdit проверяет PIN владельца и выпускает edit-грант на эту метку.
func (s *TagService) UnlockEdit(ctx context.Context, token, pin string) (string, error) {
	tag, err := s.getByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if !tag.IsClaimed() {
		return "", ErrNotClaimed
	}
	if !s.vault.Verify(strings.TrimSpace(pin), tag.OwnerPINHash) {
		return "", ErrInvalidPIN
	}
	return s.grants.Issue(tag.Token)
}

// EditParams — изменения владельца. Пустые поля не трогаются.
type EditParams struct {
	PublicMessage  string
	PrivateMessage string

	// ItemsText — позиции по одной на строку; непустой текст полностью
	// заменяет набор (первые MaxItemLines непустых строк, порядок сохраняется).
	ItemsText string
}

// Edit применяет изменения владельца. Требует действующий edit-грант
// именно на эту метку.
func (s *TagService) Edit(ctx context.Context, token, grant string, p EditParams) (*model.Tag, []model.Item, error) {
	tag, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if !tag.IsClaimed() {
		return nil, nil, ErrNotClaimed
	}
	if !s.grants.Check(grant, tag.Token) {
		return nil, nil, ErrUnauthorized
	}

	updates := map[string]any{}
	if msg := strings.TrimSpace(p.PublicMessage); msg != "" {
		updates["public_message"] = msg
		tag.PublicMessage = msg
	}
	if msg := strings.TrimSpace(p.PrivateMessage); msg != "" {
		updates["private_message"] = msg
		tag.PrivateMessage = msg
	}

	if lines := splitItemLines(p.ItemsText); len(lines) > 0 {
		if _, err := s.items.ReplaceAll(ctx, tag.ID, lines); err != nil {
			return nil, nil, err
		}
	}

	if err := s.tags.UpdateMessages(ctx, tag.ID, updates); err != nil {
		return nil, nil, err
	}

	items, err := s.items.ListByTag(ctx, tag.ID)
	if err != nil {
		return nil, nil, err
	}
	return tag, items, nil
}

// FoundParams — данные нашедшего.
type FoundParams struct {
	Note          string
	ItemID        string
	FinderName    string
	FinderContact string
}

// SubmitFound оставляет сообщение нашедшего. Разрешено и для незаявленной
// метки: история сообщений — основная запись о находке.
func (s *TagService) SubmitFound(ctx context.Context, token string, p FoundParams) (*model.FoundMessage, error) {
	note := strings.TrimSpace(p.Note)
	if note == "" {
		return nil, ErrInvalidInput
	}

	tag, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	label := model.GeneralItemLabel
	if p.ItemID != "" {
		items, err := s.items.ListByTag(ctx, tag.ID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.ID == p.ItemID {
				label = it.Label
				break
			}
		}
	}

	msg := &model.FoundMessage{
		TagID:         tag.ID,
		ItemLabel:     label,
		Note:          note,
		FinderName:    strings.TrimSpace(p.FinderName),
		FinderContact: strings.TrimSpace(p.FinderContact),
	}
	if err := s.msgs.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.tags.TouchFound(ctx, tag.ID, note, time.Now().UTC()); err != nil {
		return nil, err
	}

	return msg, nil
}

// UnlockAndRead проверяет PIN и отдаёт все сообщения метки (новые первыми),
// помечая возвращённые непрочитанные прочитанными одной транзакцией.
func (s *TagService) UnlockAndRead(ctx context.Context, token, pin string) (*model.Tag, []model.FoundMessage, error) {
	tag, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if !tag.IsClaimed() {
		return nil, nil, ErrNotClaimed
	}
	if !s.vault.Verify(strings.TrimSpace(pin), tag.OwnerPINHash) {
		return nil, nil, ErrInvalidPIN
	}
	msgs, err := s.msgs.FetchAndMarkRead(ctx, tag.ID)
	if err != nil {
		return nil, nil, err
	}
	return tag, msgs, nil
}

func (s *TagService) getByToken(ctx context.Context, token string) (*model.Tag, error) {
	tag, err := s.tags.GetByToken(ctx, NormalizeToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// splitItemLines режет текст позиций на строки: trim, без пустых,
// максимум MaxItemLines, исходный порядок.
func splitItemLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := make([]string, 0, MaxItemLines)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == MaxItemLines {
			break
		}
	}
	return lines
}
