package model

// Privilege represents a permission granted through a role
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Privilege codes checked by routes
const (
	PrivProductView       = "product:view"
	PrivProductCreate     = "product:create"
	PrivProductUpdate     = "product:update"
	PrivProductDelete     = "product:delete"
	PrivWithdrawalView    = "withdrawal:view"
	PrivWithdrawalCreate  = "withdrawal:create"
	PrivWithdrawalDelete  = "withdrawal:delete"
	PrivDistributionWrite = "distribution:create"
	PrivReturnCreate      = "return:create"
	PrivPurchaseView      = "purchase:view"
	PrivPurchaseCreate    = "purchase:create"
	PrivPurchaseMark      = "purchase:mark"
	PrivPurchaseDelete    = "purchase:delete"
	PrivReportView        = "report:view"
	PrivDashboardView     = "dashboard:view"
	PrivActivityView      = "activity:view"
	PrivUserView          = "user:view"
	PrivUserCreate        = "user:create"
	PrivUserUpdate        = "user:update"
	PrivUserDelete        = "user:delete"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Product management
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	// Withdrawals and distribution
	{Code: PrivWithdrawalView, Name: "View Withdrawal"},
	{Code: PrivWithdrawalCreate, Name: "Create Withdrawal"},
	{Code: PrivWithdrawalDelete, Name: "Delete Withdrawal"},
	{Code: PrivDistributionWrite, Name: "Distribute Withdrawal"},
	{Code: PrivReturnCreate, Name: "Register Return"},
	// Purchase requests
	{Code: PrivPurchaseView, Name: "View Purchase Request"},
	{Code: PrivPurchaseCreate, Name: "Create Purchase Request"},
	{Code: PrivPurchaseMark, Name: "Mark Purchase Request As Purchased"},
	{Code: PrivPurchaseDelete, Name: "Delete Purchase Request"},
	// Reports & dashboard
	{Code: PrivReportView, Name: "View Reports"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
	{Code: PrivActivityView, Name: "View Activity Log"},
	// User management (ADMIN only)
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
}

// AdminOnlyPrivileges are withheld from the USER role when seeding.
var AdminOnlyPrivileges = map[string]bool{
	PrivProductDelete:    true,
	PrivWithdrawalDelete: true,
	PrivPurchaseMark:     true,
	PrivActivityView:     true,
	PrivUserView:         true,
	PrivUserCreate:       true,
	PrivUserUpdate:       true,
	PrivUserDelete:       true,
}
