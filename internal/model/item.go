package model

import "time"

// Item — именованная «позиция» на метке (Keys, Bag и т.п.),
// к которой нашедший может привязать сообщение.
type Item struct {
	ID    string `gorm:"primaryKey;type:uuid"`
	TagID int64  `gorm:"not null;index"`

	Label string `gorm:"size:64;not null"`

	// Порядок внутри метки; timestamp'ов недостаточно,
	// весь набор вставляется одной транзакцией.
	Position int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// DefaultItemLabels — стартовый набор позиций, создаётся лениво при первом Claim.
var DefaultItemLabels = []string{"Keys", "Wallet", "Bag", "Lighter", "Other"}
