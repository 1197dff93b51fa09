package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flametag/internal/model"
)

// FoundMessageRepository — контракт доступа к сообщениям нашедших.
type FoundMessageRepository interface {
	// Create добавляет новое непрочитанное сообщение.
	Create(ctx context.Context, msg *model.FoundMessage) error

	// FetchAndMarkRead одной транзакцией выбирает все сообщения метки
	// (новые первыми) и помечает прочитанными ровно те из них,
	// что были непрочитанными на момент выборки.
	FetchAndMarkRead(ctx context.Context, tagID int64) ([]model.FoundMessage, error)

	// CountUnread возвращает число непрочитанных сообщений метки.
	CountUnread(ctx context.Context, tagID int64) (int64, error)
}

type foundMessageRepo struct {
	db *gorm.DB
}

// NewFoundMessageRepository создаёт реализацию репозитория для FoundMessage.
func NewFoundMessageRepository(db *gorm.DB) FoundMessageRepository {
	return &foundMessageRepo{db: db}
}

func (r *foundMessageRepo) Create(ctx context.Context, msg *model.FoundMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.IsRead = false
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *foundMessageRepo) FetchAndMarkRead(ctx context.Context, tagID int64) ([]model.FoundMessage, error) {
	var msgs []model.FoundMessage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("tag_id = ?", tagID).
			Order("created_at DESC, id DESC").
			Find(&msgs).Error; err != nil {
			return err
		}

		unread := make([]string, 0, len(msgs))
		for _, m := range msgs {
			if !m.IsRead {
				unread = append(unread, m.ID)
			}
		}
		if len(unread) == 0 {
			return nil
		}

		// Помечаем только выбранные id: сообщение, созданное после начала
		// транзакции, не может оказаться прочитанным, но не возвращённым.
		if err := tx.Model(&model.FoundMessage{}).
			Where("id IN ?", unread).
			UpdateColumn("is_read", true).Error; err != nil {
			return err
		}

		for i := range msgs {
			msgs[i].IsRead = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *foundMessageRepo) CountUnread(ctx context.Context, tagID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FoundMessage{}).
		Where("tag_id = ? AND is_read = ?", tagID, false).
		Count(&n).Error
	return n, err
}
