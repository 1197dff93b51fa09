package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"flametag/internal/model"
)

// ItemRepository — контракт доступа к позициям метки.
type ItemRepository interface {
	// ListByTag возвращает позиции метки в порядке, заданном владельцем.
	ListByTag(ctx context.Context, tagID int64) ([]model.Item, error)

	// SeedDefaults создаёт стартовый набор позиций, если у метки их ещё нет.
	// Проверка и вставка идут одной транзакцией; created=false — набор уже был.
	SeedDefaults(ctx context.Context, tagID int64) (created bool, err error)

	// ReplaceAll атомарно заменяет весь набор позиций метки на labels,
	// сохраняя их порядок. Это полная замена, не merge.
	ReplaceAll(ctx context.Context, tagID int64, labels []string) ([]model.Item, error)
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository создаёт реализацию репозитория для Item.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) ListByTag(ctx context.Context, tagID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Order("position ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) SeedDefaults(ctx context.Context, tagID int64) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Item{}).Where("tag_id = ?", tagID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		items := buildItems(tagID, model.DefaultItemLabels)
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (r *itemRepo) ReplaceAll(ctx context.Context, tagID int64, labels []string) ([]model.Item, error) {
	items := buildItems(tagID, labels)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tagID).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func buildItems(tagID int64, labels []string) []model.Item {
	items := make([]model.Item, 0, len(labels))
	for i, label := range labels {
		items = append(items, model.Item{
			ID:       uuid.NewString(),
			TagID:    tagID,
			Label:    label,
			Position: i,
		})
	}
	return items
}
