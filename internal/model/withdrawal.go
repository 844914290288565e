package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "PENDING"
	WithdrawalCompleted WithdrawalStatus = "COMPLETED"
)

// Withdrawal is a batch of products taken out of stock towards a destination,
// awaiting distribution to its sub-units.
type Withdrawal struct {
	BaseModel
	Requester   string           `gorm:"type:varchar(100);not null" json:"requester"`
	Destination string           `gorm:"type:varchar(200);not null" json:"destination"`
	Ticket      string           `gorm:"type:varchar(100)" json:"ticket"`
	Status      WithdrawalStatus `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`

	Items         []WithdrawnItem `gorm:"constraint:OnDelete:CASCADE;" json:"items,omitempty"`
	Distributions []Distribution  `gorm:"constraint:OnDelete:CASCADE;" json:"distributions,omitempty"`
}

// WithdrawnQuantities sums item quantities per product name.
func (w *Withdrawal) WithdrawnQuantities() map[string]int {
	withdrawn := make(map[string]int, len(w.Items))
	for _, item := range w.Items {
		withdrawn[item.ProductName] += item.Quantity
	}
	return withdrawn
}

type WithdrawnItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	WithdrawalID uuid.UUID `gorm:"type:uuid;not null;index" json:"withdrawal_id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName  string    `gorm:"type:varchar(100);not null" json:"product_name"` // snapshot at withdrawal time
	Quantity     int       `gorm:"not null" json:"quantity"`
}

// Distribution assigns part of a withdrawal to a destination sub-unit.
type Distribution struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	WithdrawalID    uuid.UUID `gorm:"type:uuid;not null;index" json:"withdrawal_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName     string    `gorm:"type:varchar(100);not null" json:"product_name"`
	DestinationUnit string    `gorm:"type:varchar(200);not null" json:"destination_unit"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

func (w *WithdrawnItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&w.ID)
	return nil
}

func (d *Distribution) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}
