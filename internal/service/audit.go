package service

import (
	"context"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"

	"gorm.io/gorm"
)

// Audit action labels
const (
	ActionLogin             = "Login"
	ActionLogout            = "Logout"
	ActionProductCreated    = "Product Created"
	ActionProductRestocked  = "Product Restocked"
	ActionProductEdited     = "Product Edited"
	ActionProductDeleted    = "Product Deleted"
	ActionWithdrawal        = "Equipment Withdrawal"
	ActionWithdrawalDeleted = "Withdrawal Deleted"
	ActionDistribution      = "Withdrawal Distribution"
	ActionReturn            = "Equipment Return"
	ActionPurchaseRequested = "Purchase Requested"
	ActionPurchaseCompleted = "Purchase Completed"
	ActionPurchaseDeleted   = "Purchase Request Deleted"
	ActionUserCreated       = "User Created"
	ActionUserUpdated       = "User Updated"
	ActionUserDeleted       = "User Deleted"
	ActionPasswordChanged   = "Password Changed"
)

// matches the details column width
const maxAuditDetails = 500

// auditor appends activity records, normally inside the caller's transaction.
type auditor struct {
	repo repository.ActivityRepository
}

func (a auditor) withTx(tx *gorm.DB) auditor {
	return auditor{repo: a.repo.WithTx(tx)}
}

func (a auditor) record(ctx context.Context, actor Actor, action, details string) error {
	if runes := []rune(details); len(runes) > maxAuditDetails {
		details = string(runes[:maxAuditDetails-3]) + "..."
	}
	return a.repo.Create(ctx, &model.ActivityLog{
		UserID:  actor.ID,
		Action:  action,
		Details: strings.TrimSpace(details),
	})
}
