package model

import "time"

// Tag — запись физической метки. Одна строка на один напечатанный токен.
type Tag struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// Публичный идентификатор метки. Хранится в верхнем регистре, неизменяем.
	Token string `gorm:"size:32;uniqueIndex;not null"`

	// Оба поля заполнены тогда и только тогда, когда метка заявлена владельцем.
	ClaimedAt    *time.Time
	OwnerPINHash string `gorm:"size:255"`

	PublicMessage  string `gorm:"type:text"`
	PrivateMessage string `gorm:"type:text"`

	// Счётчик сканирований. Инкремент атомарный, но точность под гонкой не гарантируется.
	ScanCount int64 `gorm:"not null;default:0"`

	// Legacy-поля: копия последней находки, основная история — в found_messages.
	FoundAt   *time.Time
	FoundNote string `gorm:"type:text"`

	UpdatedAt time.Time `gorm:"not null"`

	// Связи: метка монопольно владеет позициями и сообщениями, каскадное удаление.
	Items    []Item         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Messages []FoundMessage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// IsClaimed сообщает, заявлена ли метка владельцем.
func (t *Tag) IsClaimed() bool {
	return t.ClaimedAt != nil
}
