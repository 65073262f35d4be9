package models

import (
	"time"

	"github.com/google/uuid"
)

// Condition описывает состояние вещи в объявлении
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// IsValid проверяет, что состояние входит в закрытый список значений
func (c Condition) IsValid() bool {
	return c == ConditionNew || c == ConditionUsed
}

// Ad представляет объявление в системе
type Ad struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category"`
	Condition   Condition `json:"condition"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Дополнительные поля для API
	Owner *User `json:"owner,omitempty"`
}
