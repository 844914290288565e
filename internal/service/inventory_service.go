package service

import (
	"context"
	"errors"
	"fmt"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"
	"go-itstock/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService interface {
	AddOrRestock(ctx context.Context, actor Actor, req *AddProductRequest) (*model.Product, error)
	Edit(ctx context.Context, actor Actor, id uuid.UUID, req *EditProductRequest) (*model.Product, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, category string) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type AddProductRequest struct {
	Name        string   `json:"name" validate:"notblank,max=100"`
	Quantity    int      `json:"quantity" validate:"gt=0"`
	Category    string   `json:"category" validate:"max=100"`
	Description string   `json:"description" validate:"max=200"`
	UnitTags    []string `json:"unit_tags" validate:"dive,max=100"`
}

type EditProductRequest struct {
	Name        string   `json:"name" validate:"notblank,max=100"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Category    string   `json:"category" validate:"max=100"`
	Description string   `json:"description" validate:"max=200"`
	UnitTags    []string `json:"unit_tags" validate:"dive,max=100"`
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	audit        auditor
	db           *gorm.DB
	notifier     Notifier
	log          *zap.Logger
	unitTracking bool
}

func NewInventoryService(pRepo repository.ProductRepository, aRepo repository.ActivityRepository, db *gorm.DB, notifier Notifier, log *zap.Logger, unitTracking bool) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		audit:        auditor{repo: aRepo},
		db:           db,
		notifier:     notifier,
		log:          log,
		unitTracking: unitTracking,
	}
}

func (s *inventoryService) AddOrRestock(ctx context.Context, actor Actor, req *AddProductRequest) (*model.Product, error) {
	if err := actor.require(model.RoleUser); err != nil {
		return nil, err
	}
	if msg := validator.FirstError(req); msg != "" {
		return nil, &ValidationError{Msg: msg}
	}

	name := normalizeName(req.Name)
	category := normalizeName(req.Category)
	tags := cleanTags(req.UnitTags)

	var saved model.Product
	action := ActionProductCreated
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		if err := s.checkTags(ctx, products, tags, req.Quantity); err != nil {
			return err
		}

		product, err := products.FindByNameForUpdate(ctx, name)
		switch {
		case err == nil:
			action = ActionProductRestocked
			product.Quantity += req.Quantity
			product.Category = category
			product.Description = req.Description
			product.UpdatedBy = actor.ID.String()
			if err := products.Update(ctx, product); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			product = &model.Product{
				Name:        name,
				Quantity:    req.Quantity,
				Category:    category,
				Description: req.Description,
			}
			product.CreatedBy = actor.ID.String()
			product.UpdatedBy = actor.ID.String()
			if err := products.Create(ctx, product); err != nil {
				return err
			}
		default:
			return err
		}

		if err := products.CreateUnits(ctx, newUnits(product.ID, tags)); err != nil {
			return err
		}

		verb := "Created"
		if action == ActionProductRestocked {
			verb = "Added"
		}
		saved = *product
		return s.audit.withTx(tx).record(ctx, actor, action, fmt.Sprintf("%s %dx %s", verb, req.Quantity, name))
	})
	if err != nil {
		return nil, uniqueViolation(err, "product %q or one of its unit tags is already registered", name)
	}

	s.notifier.Publish(stockEvent(eventAction(action), actor, map[string]interface{}{
		"id":       saved.ID,
		"name":     saved.Name,
		"quantity": saved.Quantity,
		"added":    req.Quantity,
	}, fmt.Sprintf("%s added %d unit(s) of '%s'", actor.auditName(), req.Quantity, saved.Name)))

	return s.GetProduct(ctx, saved.ID)
}

// checkTags validates tags for quantity newly added units.
func (s *inventoryService) checkTags(ctx context.Context, products repository.ProductRepository, tags []string, quantity int) error {
	if !s.unitTracking {
		if len(tags) > 0 {
			return validationf("unit tracking is disabled; unit tags are not accepted")
		}
		return nil
	}
	return validateNewTags(ctx, products, tags, quantity)
}

func (s *inventoryService) Edit(ctx context.Context, actor Actor, id uuid.UUID, req *EditProductRequest) (*model.Product, error) {
	if err := actor.require(model.RoleUser); err != nil {
		return nil, err
	}
	if msg := validator.FirstError(req); msg != "" {
		return nil, &ValidationError{Msg: msg}
	}

	name := normalizeName(req.Name)
	tags := cleanTags(req.UnitTags)

	var oldQuantity int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		product, err := products.FindByIDForUpdate(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("product", id)
		}
		if err != nil {
			return err
		}
		oldQuantity = product.Quantity

		if name != product.Name {
			other, err := products.FindByNameForUpdate(ctx, name)
			if err == nil && other.ID != product.ID {
				return validationf("a product named %q already exists", name)
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if s.unitTracking {
			registered, err := products.CountUnits(ctx, product.ID)
			if err != nil {
				return err
			}
			if int64(req.Quantity) < registered {
				return validationf("the new quantity (%d) cannot be lower than the %d registered unit(s)", req.Quantity, registered)
			}
			if err := validateNewTags(ctx, products, tags, req.Quantity-int(registered)); err != nil {
				return err
			}
			if err := products.CreateUnits(ctx, newUnits(product.ID, tags)); err != nil {
				return err
			}
		} else if len(tags) > 0 {
			return validationf("unit tracking is disabled; unit tags are not accepted")
		}

		product.Name = name
		product.Quantity = req.Quantity
		product.Category = normalizeName(req.Category)
		product.Description = req.Description
		product.UpdatedBy = actor.ID.String()
		if err := products.Update(ctx, product); err != nil {
			return err
		}

		return s.audit.withTx(tx).record(ctx, actor, ActionProductEdited,
			fmt.Sprintf("Edited %s, new quantity: %d", name, req.Quantity))
	})
	if err != nil {
		return nil, uniqueViolation(err, "product %q or one of its unit tags is already registered", name)
	}

	s.notifier.Publish(stockEvent("product_updated", actor, map[string]interface{}{
		"id":        id,
		"name":      name,
		"old_stock": oldQuantity,
		"new_stock": req.Quantity,
	}, fmt.Sprintf("%s updated product '%s'", actor.auditName(), name)))

	return s.GetProduct(ctx, id)
}

func (s *inventoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := actor.require(model.RoleAdmin); err != nil {
		return err
	}

	var name string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		product, err := products.FindByIDForUpdate(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("product", id)
		}
		if err != nil {
			return err
		}
		name = product.Name

		if err := products.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.withTx(tx).record(ctx, actor, ActionProductDeleted, fmt.Sprintf("Deleted %s", name))
	})
	if err != nil {
		return err
	}

	s.log.Info("product deleted", zap.String("product", name), zap.String("by", actor.Username))
	s.notifier.Publish(stockEvent("product_deleted", actor, map[string]interface{}{"id": id, "name": name},
		fmt.Sprintf("%s deleted product '%s'", actor.auditName(), name)))
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("product", id)
	}
	return product, err
}

func (s *inventoryService) ListProducts(ctx context.Context, category string) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, category)
}

func (s *inventoryService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

func eventAction(auditAction string) string {
	if auditAction == ActionProductRestocked {
		return "product_restocked"
	}
	return "product_created"
}
