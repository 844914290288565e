package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Quantity    int    `gorm:"not null;default:0" json:"quantity"`
	Category    string `gorm:"type:varchar(100);index" json:"category"`
	Description string `gorm:"type:varchar(200)" json:"description"`

	Units []ProductUnit `gorm:"constraint:OnDelete:CASCADE;" json:"units,omitempty"`
}

// ProductUnit is one serialized physical unit of a product, identified by its tag.
type ProductUnit struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Tag       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *ProductUnit) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
