package repository

import (
	"context"

	"go-itstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, category string) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByNameForUpdate(ctx context.Context, name string) (*model.Product, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedBy string) error
	CountUnits(ctx context.Context, productID uuid.UUID) (int64, error)
	FindUnitByTags(ctx context.Context, tags []string) (*model.ProductUnit, error)
	CreateUnits(ctx context.Context, units []model.ProductUnit) error
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	FindLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	TotalQuantity(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Units").Create(product).Error
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Units").Save(product).Error
}

// Delete removes the product together with its registered units.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&model.ProductUnit{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindAll(ctx context.Context, category string) ([]model.Product, error) {
	products := []model.Product{}
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, tag ASC") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row for the rest of the transaction.
func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByNameForUpdate(ctx context.Context, name string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedBy string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_by": updatedBy,
		}).Error
}

func (r *productRepo) CountUnits(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductUnit{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// FindUnitByTags returns the first already-registered unit carrying one of tags,
// with its owning product, or gorm.ErrRecordNotFound when all tags are free.
func (r *productRepo) FindUnitByTags(ctx context.Context, tags []string) (*model.ProductUnit, error) {
	if len(tags) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var unit model.ProductUnit
	err := r.db.WithContext(ctx).Preload("Product").
		Where("tag IN ?", tags).Order("tag ASC").
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *productRepo) CreateUnits(ctx context.Context, units []model.ProductUnit) error {
	if len(units) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&units).Error
}

func (r *productRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("quantity <= ?", threshold).Count(&count).Error
	return count, err
}

func (r *productRepo) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).Where("quantity <= ?", threshold).Order("quantity ASC, name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) TotalQuantity(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	return total, err
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}
