package service

import (
	"context"
	"fmt"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReturnService interface {
	ReturnDirect(ctx context.Context, actor Actor, req *DirectReturnRequest) ([]model.Return, error)
	History(ctx context.Context, filter repository.HistoryFilter) (*repository.Page[model.Return], error)
}

type DirectReturnLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type DirectReturnRequest struct {
	Origin string             `json:"origin"`
	Items  []DirectReturnLine `json:"items"`
}

type returnService struct {
	returnRepo  repository.ReturnRepository
	productRepo repository.ProductRepository
	audit       auditor
	db          *gorm.DB
	notifier    Notifier
	log         *zap.Logger
}

func NewReturnService(rRepo repository.ReturnRepository, pRepo repository.ProductRepository, aRepo repository.ActivityRepository, db *gorm.DB, notifier Notifier, log *zap.Logger) ReturnService {
	return &returnService{
		returnRepo:  rRepo,
		productRepo: pRepo,
		audit:       auditor{repo: aRepo},
		db:          db,
		notifier:    notifier,
		log:         log,
	}
}

// ReturnDirect puts equipment from an unrelated source back into stock.
// Lines without a product or with a non-positive quantity are skipped.
func (s *returnService) ReturnDirect(ctx context.Context, actor Actor, req *DirectReturnRequest) ([]model.Return, error) {
	if err := actor.require(model.RoleUser); err != nil {
		return nil, err
	}
	origin := strings.TrimSpace(req.Origin)
	if origin == "" {
		return nil, validationf("origin is required")
	}

	lines := make([]DirectReturnLine, 0, len(req.Items))
	for _, line := range req.Items {
		if line.ProductID == uuid.Nil || line.Quantity <= 0 {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, validationf("no valid items to return")
	}

	returns := make([]model.Return, 0, len(lines))
	stockAfter := map[string]int{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := stockLedger{products: s.productRepo.WithTx(tx)}
		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		if err := ledger.lockInOrder(ctx, ids); err != nil {
			return err
		}
		summary := make([]string, 0, len(lines))
		for _, line := range lines {
			product, err := ledger.increment(ctx, line.ProductID, line.Quantity, actor)
			if err != nil {
				return err
			}
			stockAfter[product.Name] = product.Quantity
			returns = append(returns, model.Return{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Responsible: actor.auditName(),
				Origin:      origin,
			})
			summary = append(summary, fmt.Sprintf("%dx %s", line.Quantity, product.Name))
		}
		if err := s.returnRepo.WithTx(tx).Create(ctx, returns); err != nil {
			return err
		}
		return s.audit.withTx(tx).record(ctx, actor, ActionReturn,
			fmt.Sprintf("Items: %s from %s", strings.Join(summary, ", "), origin))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("equipment returned", zap.String("origin", origin), zap.Int("lines", len(returns)))
	s.notifier.Publish(stockEvent("equipment_returned", actor, map[string]interface{}{
		"origin": origin,
		"stock":  stockAfter,
	}, fmt.Sprintf("%s returned %d item line(s) from %s", actor.auditName(), len(returns), origin)))

	return returns, nil
}

func (s *returnService) History(ctx context.Context, filter repository.HistoryFilter) (*repository.Page[model.Return], error) {
	return s.returnRepo.History(ctx, filter)
}
