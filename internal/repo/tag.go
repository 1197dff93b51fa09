package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"flametag/internal/model"
)

// TagRepository — минимальный контракт доступа к Tag для слоя сервиса.
type TagRepository interface {
	// CreateIfAbsent пытается вставить метку с данным токеном.
	// Возвращает created=true, если запись была создана в этой операции.
	CreateIfAbsent(ctx context.Context, token string) (created bool, err error)

	// GetByToken возвращает метку по токену или gorm.ErrRecordNotFound.
	GetByToken(ctx context.Context, token string) (*model.Tag, error)

	// BumpScan атомарно инкрементирует счётчик сканирований и обновляет updated_at.
	BumpScan(ctx context.Context, tagID int64) error

	// ClaimOnce переводит метку в Claimed строго один раз:
	// UPDATE срабатывает только при claimed_at IS NULL.
	// claimed=false означает, что метку успел заявить кто-то другой.
	ClaimOnce(ctx context.Context, tagID int64, pinHash, publicMsg, privateMsg string, now time.Time) (claimed bool, err error)

	// UpdateMessages перезаписывает переданные поля сообщений и updated_at.
	UpdateMessages(ctx context.Context, tagID int64, updates map[string]any) error

	// TouchFound обновляет legacy-поля последней находки и updated_at.
	TouchFound(ctx context.Context, tagID int64, note string, now time.Time) error

	// ListRecent возвращает последние созданные метки (для админки).
	ListRecent(ctx context.Context, limit int) ([]model.Tag, error)

	// FilterExisting возвращает подмножество tokens, уже занятое в БД.
	FilterExisting(ctx context.Context, tokens []string) (map[string]struct{}, error)
}

type tagRepo struct {
	db *gorm.DB
}

// NewTagRepository создаёт реализацию репозитория для Tag.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) CreateIfAbsent(ctx context.Context, token string) (bool, error) {
	t := &model.Tag{Token: token, UpdatedAt: time.Now().UTC()}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoNothing: true,
	}).Create(t)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *tagRepo) GetByToken(ctx context.Context, token string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) BumpScan(ctx context.Context, tagID int64) error {
	return r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("id = ?", tagID).
		UpdateColumns(map[string]any{
			"scan_count": gorm.Expr("scan_count + 1"),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *tagRepo) ClaimOnce(ctx context.Context, tagID int64, pinHash, publicMsg, privateMsg string, now time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("id = ? AND claimed_at IS NULL", tagID).
		UpdateColumns(map[string]any{
			"owner_pin_hash":  pinHash,
			"public_message":  publicMsg,
			"private_message": privateMsg,
			"claimed_at":      now,
			"updated_at":      now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *tagRepo) UpdateMessages(ctx context.Context, tagID int64, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("id = ?", tagID).
		UpdateColumns(updates).Error
}

func (r *tagRepo) TouchFound(ctx context.Context, tagID int64, note string, now time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("id = ?", tagID).
		UpdateColumns(map[string]any{
			"found_at":   now,
			"found_note": note,
			"updated_at": now,
		}).Error
}

func (r *tagRepo) ListRecent(ctx context.Context, limit int) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *tagRepo) FilterExisting(ctx context.Context, tokens []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(tokens))
	if len(tokens) == 0 {
		return existing, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("token IN ?", tokens).
		Pluck("token", &found).Error
	if err != nil {
		return nil, err
	}
	for _, t := range found {
		existing[t] = struct{}{}
	}
	return existing, nil
}
