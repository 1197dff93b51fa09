package model

import "time"

// FoundMessage — сообщение нашедшего. Создаётся только через SubmitFound,
// единственная мутация за всю жизнь — массовая установка is_read при прочтении.
type FoundMessage struct {
	ID    string `gorm:"primaryKey;type:uuid"`
	TagID int64  `gorm:"not null;index"`

	// Метка позиции ("Keys" и т.п.); "General", если позиция не указана.
	ItemLabel string `gorm:"size:64;not null;default:General"`
	Note      string `gorm:"type:text;not null"`

	FinderName    string `gorm:"size:80"`
	FinderContact string `gorm:"size:120"`

	IsRead bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// GeneralItemLabel — метка для сообщений без привязки к конкретной позиции.
const GeneralItemLabel = "General"
