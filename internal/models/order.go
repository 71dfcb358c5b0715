package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending              OrderStatus = "pending"
	OrderStatusAwaitingVerification OrderStatus = "awaiting_verification"
	OrderStatusPaid                 OrderStatus = "paid"
	OrderStatusFailed               OrderStatus = "failed"
)

// Order is one checkout attempt. Amount is always recomputed server-side
// from theme + features; the client-submitted total is never stored.
// Orders are append-only: after paid nothing changes except ValentineID.
type Order struct {
	ID      uint       `gorm:"primaryKey" json:"-"`
	OrderID string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_id"`
	UserID  *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil = guest checkout

	Amount   int64          `json:"amount"`
	Theme    string         `gorm:"type:varchar(40)" json:"theme"`
	Features datatypes.JSON `json:"features"` // ["feature_gallery", ...]
	Config   datatypes.JSON `json:"config"`   // opaque payload, schema owned by the templates

	Status OrderStatus `gorm:"type:varchar(30);default:'pending';index" json:"status"`

	TransactionID string `gorm:"type:varchar(100)" json:"transaction_id,omitempty"` // user-attested, unverified
	ValentineID   string `gorm:"type:varchar(20);index" json:"valentine_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

func (o *Order) FeatureList() []string {
	var f []string
	_ = json.Unmarshal(o.Features, &f)
	return f
}

// FeaturesJSON normalizes a feature slice for storage (nil becomes []).
func FeaturesJSON(features []string) datatypes.JSON {
	if features == nil {
		features = []string{}
	}
	b, _ := json.Marshal(features)
	return datatypes.JSON(b)
}
