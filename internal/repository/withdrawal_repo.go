package repository

import (
	"context"

	"go-itstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalRepository interface {
	WithTx(tx *gorm.DB) WithdrawalRepository
	Create(ctx context.Context, withdrawal *model.Withdrawal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error)
	FindPending(ctx context.Context) ([]model.Withdrawal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.WithdrawalStatus, updatedBy string) error
	CreateDistributions(ctx context.Context, distributions []model.Distribution) error
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, filter HistoryFilter) (*Page[model.Withdrawal], error)
	DistributionHistory(ctx context.Context, filter HistoryFilter) (*Page[model.Distribution], error)
	CountPending(ctx context.Context) (int64, error)
}

type withdrawalRepo struct {
	db *gorm.DB
}

func NewWithdrawalRepo(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepo{db}
}

func (r *withdrawalRepo) WithTx(tx *gorm.DB) WithdrawalRepository {
	return &withdrawalRepo{tx}
}

// Create persists the withdrawal and its Items in one statement batch.
func (r *withdrawalRepo) Create(ctx context.Context, withdrawal *model.Withdrawal) error {
	return r.db.WithContext(ctx).Omit("Distributions").Create(withdrawal).Error
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_name ASC") }).
		Preload("Distributions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, product_name ASC") })
}

func (r *withdrawalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	var withdrawal model.Withdrawal
	if err := r.db.WithContext(ctx).Scopes(preloadLines).First(&withdrawal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// FindByIDForUpdate locks the withdrawal row so it cannot be reconciled twice concurrently.
func (r *withdrawalRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	var withdrawal model.Withdrawal
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&withdrawal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("withdrawal_id = ?", id).Find(&withdrawal.Items).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (r *withdrawalRepo) FindPending(ctx context.Context) ([]model.Withdrawal, error) {
	withdrawals := []model.Withdrawal{}
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_name ASC") }).
		Where("status = ?", model.WithdrawalPending).
		Order("created_at DESC").
		Find(&withdrawals).Error
	return withdrawals, err
}

func (r *withdrawalRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.WithdrawalStatus, updatedBy string) error {
	return r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}

func (r *withdrawalRepo) CreateDistributions(ctx context.Context, distributions []model.Distribution) error {
	if len(distributions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&distributions).Error
}

// Delete removes the withdrawal with its items and distributions.
func (r *withdrawalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("withdrawal_id = ?", id).Delete(&model.Distribution{}).Error; err != nil {
		return err
	}
	if err := db.Where("withdrawal_id = ?", id).Delete(&model.WithdrawnItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Withdrawal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// History matches the query against requester, destination, ticket and item product names.
func (r *withdrawalRepo) History(ctx context.Context, filter HistoryFilter) (*Page[model.Withdrawal], error) {
	query := r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Scopes(
			filter.matching(
				[]string{"requester", "destination", "ticket"},
				"id IN (SELECT withdrawal_id FROM withdrawn_items WHERE LOWER(product_name) LIKE ?)",
			),
			filter.onDay("created_at"),
		)
	return findPage[model.Withdrawal](query, filter, "created_at DESC", preloadLines)
}

// DistributionHistory matches the query against product name and destination unit.
func (r *withdrawalRepo) DistributionHistory(ctx context.Context, filter HistoryFilter) (*Page[model.Distribution], error) {
	query := r.db.WithContext(ctx).Model(&model.Distribution{}).
		Scopes(
			filter.matching([]string{"product_name", "destination_unit"}),
			filter.onDay("created_at"),
		)
	return findPage[model.Distribution](query, filter, "created_at DESC")
}

func (r *withdrawalRepo) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Withdrawal{}).Where("status = ?", model.WithdrawalPending).Count(&count).Error
	return count, err
}
