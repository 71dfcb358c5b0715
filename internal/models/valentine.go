package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Valentine is a published page: one theme + one config snapshot behind a
// short shareable id. Immutable after creation; only Views ever grows.
type Valentine struct {
	ID          uint       `gorm:"primaryKey" json:"-"`
	ValentineID string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"valentine_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	OrderID     string     `gorm:"type:varchar(20);index" json:"order_id,omitempty"` // empty for direct-published demo pages

	Theme    string         `gorm:"type:varchar(40);not null" json:"theme"`
	Config   datatypes.JSON `json:"config"`
	Features datatypes.JSON `json:"features"`

	Views    int64 `json:"views"`
	IsActive bool  `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}
