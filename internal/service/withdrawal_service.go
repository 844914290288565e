package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"
	"go-itstock/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WithdrawalService interface {
	Create(ctx context.Context, actor Actor, req *CreateWithdrawalRequest) (*model.Withdrawal, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error)
	ListPending(ctx context.Context) ([]model.Withdrawal, error)
	History(ctx context.Context, filter repository.HistoryFilter) (*repository.Page[model.Withdrawal], error)
	DistributionHistory(ctx context.Context, filter repository.HistoryFilter) (*repository.Page[model.Distribution], error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type WithdrawalLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity"`
}

type CreateWithdrawalRequest struct {
	Destination string           `json:"destination" validate:"notblank,max=200"`
	Ticket      string           `json:"ticket" validate:"max=100"`
	Items       []WithdrawalLine `json:"items" validate:"dive"`
}

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	productRepo    repository.ProductRepository
	audit          auditor
	db             *gorm.DB
	notifier       Notifier
	log            *zap.Logger
}

func NewWithdrawalService(wRepo repository.WithdrawalRepository, pRepo repository.ProductRepository, aRepo repository.ActivityRepository, db *gorm.DB, notifier Notifier, log *zap.Logger) WithdrawalService {
	return &withdrawalService{
		withdrawalRepo: wRepo,
		productRepo:    pRepo,
		audit:          auditor{repo: aRepo},
		db:             db,
		notifier:       notifier,
		log:            log,
	}
}

// Create takes every line out of stock and records the withdrawal as PENDING.
// The first invalid line aborts the whole withdrawal.
func (s *withdrawalService) Create(ctx context.Context, actor Actor, req *CreateWithdrawalRequest) (*model.Withdrawal, error) {
	if err := actor.require(model.RoleUser); err != nil {
		return nil, err
	}
	if msg := validator.FirstError(req); msg != "" {
		return nil, &ValidationError{Msg: msg}
	}
	if len(req.Items) == 0 {
		return nil, validationf("a withdrawal needs at least one item")
	}

	withdrawal := &model.Withdrawal{
		Requester:   actor.auditName(),
		Destination: strings.TrimSpace(req.Destination),
		Ticket:      strings.TrimSpace(req.Ticket),
		Status:      model.WithdrawalPending,
	}
	withdrawal.CreatedBy = actor.ID.String()
	withdrawal.UpdatedBy = actor.ID.String()

	stockAfter := map[uuid.UUID]int{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := stockLedger{products: s.productRepo.WithTx(tx)}
		ids := make([]uuid.UUID, 0, len(req.Items))
		for _, line := range req.Items {
			ids = append(ids, line.ProductID)
		}
		if err := ledger.lockInOrder(ctx, ids); err != nil {
			return err
		}

		summary := make([]string, 0, len(req.Items))
		for _, line := range req.Items {
			product, err := ledger.decrement(ctx, line.ProductID, line.Quantity, actor)
			if err != nil {
				return err
			}
			stockAfter[product.ID] = product.Quantity
			withdrawal.Items = append(withdrawal.Items, model.WithdrawnItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
			})
			summary = append(summary, fmt.Sprintf("%dx %s", line.Quantity, product.Name))
		}

		if err := s.withdrawalRepo.WithTx(tx).Create(ctx, withdrawal); err != nil {
			return err
		}

		return s.audit.withTx(tx).record(ctx, actor, ActionWithdrawal,
			fmt.Sprintf("Items: %s to %s", strings.Join(summary, ", "), withdrawal.Destination))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("withdrawal created",
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("destination", withdrawal.Destination),
		zap.Int("lines", len(withdrawal.Items)))
	s.notifier.Publish(stockEvent("withdrawal_created", actor, map[string]interface{}{
		"id":          withdrawal.ID,
		"destination": withdrawal.Destination,
		"stock":       stockAfter,
	}, fmt.Sprintf("%s withdrew %d item line(s) to %s", actor.auditName(), len(withdrawal.Items), withdrawal.Destination)))

	return withdrawal, nil
}

func (s *withdrawalService) Get(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("withdrawal", id)
	}
	return withdrawal, err
}

func (s *withdrawalService) ListPending(ctx context.Context) ([]model.Withdrawal, error) {
	return s.withdrawalRepo.FindPending(ctx)
}

func (s *withdrawalService) History(ctx context.Context, filter repository.HistoryFilter) (*repository.Page[model.Withdrawal], error) {
	return s.withdrawalRepo.History(ctx, filter)
}

func (s *withdrawalService) DistributionHistory(ctx context.Context, filter repository.HistoryFilter) (*repository.Page[model.Distribution], error) {
	return s.withdrawalRepo.DistributionHistory(ctx, filter)
}

// Delete removes a withdrawal with its items and distributions. Stock is not restored.
func (s *withdrawalService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := actor.require(model.RoleAdmin); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		withdrawals := s.withdrawalRepo.WithTx(tx)
		withdrawal, err := withdrawals.FindByIDForUpdate(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("withdrawal", id)
		}
		if err != nil {
			return err
		}
		if err := withdrawals.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.withTx(tx).record(ctx, actor, ActionWithdrawalDeleted,
			fmt.Sprintf("Deleted withdrawal #%s to %s", withdrawal.ID, withdrawal.Destination))
	})
	if err != nil {
		return err
	}

	s.log.Info("withdrawal deleted", zap.String("withdrawal_id", id.String()), zap.String("by", actor.Username))
	return nil
}
