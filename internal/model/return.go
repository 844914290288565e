package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Return puts quantity back into stock, either as a withdrawal leftover
// (WithdrawalID set) or from an unrelated source.
type Return struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	WithdrawalID *uuid.UUID `gorm:"type:uuid;index" json:"withdrawal_id,omitempty"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null" json:"product_id"`
	ProductName  string     `gorm:"type:varchar(100);not null" json:"product_name"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	Responsible  string     `gorm:"type:varchar(100);not null" json:"responsible"`
	Origin       string     `gorm:"type:varchar(200);not null" json:"origin"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

func (r *Return) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
