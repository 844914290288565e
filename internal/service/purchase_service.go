package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PurchaseService interface {
	Submit(ctx context.Context, actor Actor, lines []PurchaseLine) ([]model.PurchaseRequest, error)
	MarkPurchased(ctx context.Context, actor Actor, id uuid.UUID) (*model.PurchaseRequest, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	List(ctx context.Context, status model.PurchaseStatus) ([]model.PurchaseRequest, error)
}

type PurchaseLine struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Link        string `json:"link"`
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	audit        auditor
	db           *gorm.DB
	log          *zap.Logger
}

func NewPurchaseService(pRepo repository.PurchaseRepository, aRepo repository.ActivityRepository, db *gorm.DB, log *zap.Logger) PurchaseService {
	return &purchaseService{
		purchaseRepo: pRepo,
		audit:        auditor{repo: aRepo},
		db:           db,
		log:          log,
	}
}

// Submit queues one PENDING request per line that names a product with a
// positive quantity. Other lines are skipped.
func (s *purchaseService) Submit(ctx context.Context, actor Actor, lines []PurchaseLine) ([]model.PurchaseRequest, error) {
	if err := actor.require(model.RoleUser); err != nil {
		return nil, err
	}

	requests := make([]model.PurchaseRequest, 0, len(lines))
	summary := make([]string, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line.ProductName)
		if name == "" || line.Quantity <= 0 {
			continue
		}
		request := model.PurchaseRequest{
			ProductName: name,
			Quantity:    line.Quantity,
			Link:        strings.TrimSpace(line.Link),
			Status:      model.PurchasePending,
		}
		request.CreatedBy = actor.ID.String()
		request.UpdatedBy = actor.ID.String()
		requests = append(requests, request)
		summary = append(summary, fmt.Sprintf("%dx %s", line.Quantity, name))
	}
	if len(requests) == 0 {
		return nil, validationf("no valid items to request")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.purchaseRepo.WithTx(tx).Create(ctx, requests); err != nil {
			return err
		}
		return s.audit.withTx(tx).record(ctx, actor, ActionPurchaseRequested,
			"Items: "+strings.Join(summary, ", "))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase requested", zap.Int("lines", len(requests)), zap.String("by", actor.Username))
	return requests, nil
}

// MarkPurchased flags a request as bought. Marking an already purchased
// request succeeds without writing anything.
func (s *purchaseService) MarkPurchased(ctx context.Context, actor Actor, id uuid.UUID) (*model.PurchaseRequest, error) {
	if err := actor.require(model.RoleAdmin); err != nil {
		return nil, err
	}

	var request *model.PurchaseRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchases := s.purchaseRepo.WithTx(tx)
		found, err := purchases.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("purchase request", id)
		}
		if err != nil {
			return err
		}
		request = found
		if request.Status == model.PurchasePurchased {
			return nil
		}

		if err := purchases.UpdateStatus(ctx, id, model.PurchasePurchased, actor.ID.String()); err != nil {
			return err
		}
		request.Status = model.PurchasePurchased
		return s.audit.withTx(tx).record(ctx, actor, ActionPurchaseCompleted,
			fmt.Sprintf("Purchased %dx %s", request.Quantity, request.ProductName))
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *purchaseService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := actor.require(model.RoleUser); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchases := s.purchaseRepo.WithTx(tx)
		request, err := purchases.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("purchase request", id)
		}
		if err != nil {
			return err
		}
		if err := purchases.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.withTx(tx).record(ctx, actor, ActionPurchaseDeleted,
			fmt.Sprintf("Deleted request for %dx %s", request.Quantity, request.ProductName))
	})
}

func (s *purchaseService) List(ctx context.Context, status model.PurchaseStatus) ([]model.PurchaseRequest, error) {
	return s.purchaseRepo.FindAll(ctx, status)
}
