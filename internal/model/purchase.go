package model

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchasePurchased PurchaseStatus = "PURCHASED"
)

type PurchaseRequest struct {
	BaseModel
	ProductName string         `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Link        string         `gorm:"type:varchar(500)" json:"link"`
	Status      PurchaseStatus `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
}
