package repository

import (
	"context"

	"go-itstock/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	WithTx(tx *gorm.DB) ActivityRepository
	Create(ctx context.Context, entry *model.ActivityLog) error
	History(ctx context.Context, filter HistoryFilter) (*Page[model.ActivityLog], error)
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db}
}

func (r *activityRepo) WithTx(tx *gorm.DB) ActivityRepository {
	return &activityRepo{tx}
}

func (r *activityRepo) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// History matches the query against action and details.
func (r *activityRepo) History(ctx context.Context, filter HistoryFilter) (*Page[model.ActivityLog], error) {
	query := r.db.WithContext(ctx).Model(&model.ActivityLog{}).
		Scopes(
			filter.matching([]string{"action", "details"}),
			filter.onDay("created_at"),
		)
	return findPage[model.ActivityLog](query, filter, "created_at DESC", func(db *gorm.DB) *gorm.DB {
		return db.Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
	})
}
