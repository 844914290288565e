package repository

import (
	"context"

	"go-itstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	WithTx(tx *gorm.DB) PurchaseRepository
	Create(ctx context.Context, requests []model.PurchaseRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error)
	FindAll(ctx context.Context, status model.PurchaseStatus) ([]model.PurchaseRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PurchaseStatus, updatedBy string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) WithTx(tx *gorm.DB) PurchaseRepository {
	return &purchaseRepo{tx}
}

func (r *purchaseRepo) Create(ctx context.Context, requests []model.PurchaseRequest) error {
	if len(requests) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&requests).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	var request model.PurchaseRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindAll lists requests newest first; an empty status lists every request.
func (r *purchaseRepo) FindAll(ctx context.Context, status model.PurchaseStatus) ([]model.PurchaseRequest, error) {
	requests := []model.PurchaseRequest{}
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *purchaseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PurchaseStatus, updatedBy string) error {
	return r.db.WithContext(ctx).Model(&model.PurchaseRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}

func (r *purchaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.PurchaseRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
