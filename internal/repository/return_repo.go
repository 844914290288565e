package repository

import (
	"context"

	"go-itstock/internal/model"

	"gorm.io/gorm"
)

type ReturnRepository interface {
	WithTx(tx *gorm.DB) ReturnRepository
	Create(ctx context.Context, returns []model.Return) error
	History(ctx context.Context, filter HistoryFilter) (*Page[model.Return], error)
}

type returnRepo struct {
	db *gorm.DB
}

func NewReturnRepo(db *gorm.DB) ReturnRepository {
	return &returnRepo{db}
}

func (r *returnRepo) WithTx(tx *gorm.DB) ReturnRepository {
	return &returnRepo{tx}
}

func (r *returnRepo) Create(ctx context.Context, returns []model.Return) error {
	if len(returns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&returns).Error
}

// History matches the query against product, responsible party and origin.
func (r *returnRepo) History(ctx context.Context, filter HistoryFilter) (*Page[model.Return], error) {
	query := r.db.WithContext(ctx).Model(&model.Return{}).
		Scopes(
			filter.matching([]string{"product_name", "responsible", "origin"}),
			filter.onDay("created_at"),
		)
	return findPage[model.Return](query, filter, "created_at DESC")
}
