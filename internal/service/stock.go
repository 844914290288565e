package service

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"
	"go-itstock/internal/ws"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Notifier receives stock change events after a successful commit.
type Notifier interface {
	Publish(event ws.Event)
}

func stockEvent(action string, actor Actor, data interface{}, message string) ws.Event {
	return ws.Event{
		Type:   "stock_update",
		Action: action,
		Data:   data,
		User: map[string]interface{}{
			"id":       actor.ID,
			"username": actor.Username,
			"name":     actor.auditName(),
		},
		Message: message,
	}
}

// normalizeName trims, collapses inner whitespace and title-cases product
// names and categories so "  mouse   USB " and "Mouse Usb" are the same product.
// A Caser keeps state between calls, so each call builds its own.
func normalizeName(s string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}

// stockLedger mutates product quantities inside the caller's transaction.
type stockLedger struct {
	products repository.ProductRepository
}

// decrement locks the product and removes amount from its quantity.
func (l stockLedger) decrement(ctx context.Context, productID uuid.UUID, amount int, actor Actor) (*model.Product, error) {
	product, err := l.lock(ctx, productID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, validationf("quantity for %s must be greater than zero", product.Name)
	}
	if amount > product.Quantity {
		return nil, &InsufficientStockError{Product: product.Name, Requested: amount, Available: product.Quantity}
	}
	product.Quantity -= amount
	if err := l.products.UpdateQuantity(ctx, product.ID, product.Quantity, actor.ID.String()); err != nil {
		return nil, err
	}
	return product, nil
}

// increment locks the product and adds amount to its quantity.
func (l stockLedger) increment(ctx context.Context, productID uuid.UUID, amount int, actor Actor) (*model.Product, error) {
	product, err := l.lock(ctx, productID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, validationf("quantity for %s must be greater than zero", product.Name)
	}
	product.Quantity += amount
	if err := l.products.UpdateQuantity(ctx, product.ID, product.Quantity, actor.ID.String()); err != nil {
		return nil, err
	}
	return product, nil
}

func (l stockLedger) lock(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	product, err := l.products.FindByIDForUpdate(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("product", productID)
	}
	return product, err
}

// lockInOrder takes the row locks for ids in ascending id order, so
// transactions touching the same products always lock them in the same order.
// Unknown ids are left for the per-line operation to report.
func (l stockLedger) lockInOrder(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range sortedIDs(ids) {
		_, err := l.lock(ctx, id)
		var missing *NotFoundError
		if errors.As(err, &missing) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return slices.Compact(sorted)
}

// validateNewTags checks that tags holds exactly want distinct, non-empty
// tags none of which is registered to any product yet.
func validateNewTags(ctx context.Context, products repository.ProductRepository, tags []string, want int) error {
	if len(tags) != want {
		return validationf("expected %d unit tag(s), got %d", want, len(tags))
	}
	seen := make(map[string]bool, len(tags))
	for i, tag := range tags {
		if tag == "" {
			return validationf("unit tag #%d is empty", i+1)
		}
		if seen[tag] {
			return validationf("unit tag %q is repeated in the request; every tag must be unique", tag)
		}
		seen[tag] = true
	}

	existing, err := products.FindUnitByTags(ctx, tags)
	if err == nil {
		owner := ""
		if existing.Product != nil {
			owner = existing.Product.Name
		}
		return validationf("unit tag %q is already registered to product %q", existing.Tag, owner)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned = append(cleaned, strings.TrimSpace(tag))
	}
	return cleaned
}

func newUnits(productID uuid.UUID, tags []string) []model.ProductUnit {
	units := make([]model.ProductUnit, 0, len(tags))
	for _, tag := range tags {
		units = append(units, model.ProductUnit{ProductID: productID, Tag: tag})
	}
	return units
}
