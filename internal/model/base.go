package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard Audit Trails
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(255)" json:"created_by"`
	UpdatedBy string `gorm:"type:varchar(255)" json:"updated_by"`
}

// BeforeCreate generates the UUID unless the caller already assigned one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	assignID(&base.ID)
	return
}

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Privilege{},
		&Role{},
		&User{},
		&ActivityLog{},
		&Product{},
		&ProductUnit{},
		&Withdrawal{},
		&WithdrawnItem{},
		&Distribution{},
		&Return{},
		&PurchaseRequest{},
	}
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
