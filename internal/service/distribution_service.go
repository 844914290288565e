package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DistributionService interface {
	Distribute(ctx context.Context, actor Actor, withdrawalID uuid.UUID, req *DistributeRequest) (*model.Withdrawal, error)
}

// DistributionLine sends quantity of a withdrawn product to a destination unit.
type DistributionLine struct {
	DestinationUnit string `json:"destination_unit"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
}

// ReturnLine puts quantity of a withdrawn product back into stock.
type ReturnLine struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type DistributeRequest struct {
	Distributions []DistributionLine `json:"distributions"`
	Returns       []ReturnLine       `json:"returns"`
}

// ReturnOrigin is the origin recorded for leftovers of a withdrawal.
func ReturnOrigin(withdrawalID uuid.UUID) string {
	return fmt.Sprintf("Leftover from withdrawal #%s", withdrawalID)
}

type distributionService struct {
	withdrawalRepo repository.WithdrawalRepository
	productRepo    repository.ProductRepository
	returnRepo     repository.ReturnRepository
	audit          auditor
	db             *gorm.DB
	notifier       Notifier
	log            *zap.Logger
}

func NewDistributionService(wRepo repository.WithdrawalRepository, pRepo repository.ProductRepository, rRepo repository.ReturnRepository, aRepo repository.ActivityRepository, db *gorm.DB, notifier Notifier, log *zap.Logger) DistributionService {
	return &distributionService{
		withdrawalRepo: wRepo,
		productRepo:    pRepo,
		returnRepo:     rRepo,
		audit:          auditor{repo: aRepo},
		db:             db,
		notifier:       notifier,
		log:            log,
	}
}

// validLines drops lines with a blank unit/product or a non-positive quantity.
func (r *DistributeRequest) validLines() ([]DistributionLine, []ReturnLine) {
	distributions := make([]DistributionLine, 0, len(r.Distributions))
	for _, line := range r.Distributions {
		line.DestinationUnit = strings.TrimSpace(line.DestinationUnit)
		line.ProductName = strings.TrimSpace(line.ProductName)
		if line.DestinationUnit == "" || line.ProductName == "" || line.Quantity <= 0 {
			continue
		}
		distributions = append(distributions, line)
	}
	returns := make([]ReturnLine, 0, len(r.Returns))
	for _, line := range r.Returns {
		line.ProductName = strings.TrimSpace(line.ProductName)
		if line.ProductName == "" || line.Quantity <= 0 {
			continue
		}
		returns = append(returns, line)
	}
	return distributions, returns
}

// Reconcile checks that, per product, distributed plus returned quantity does
// not exceed what the withdrawal took out of stock.
func Reconcile(withdrawn map[string]int, distributions []DistributionLine, returns []ReturnLine) error {
	claimed := make(map[string]int)
	for _, line := range distributions {
		claimed[line.ProductName] += line.Quantity
	}
	for _, line := range returns {
		claimed[line.ProductName] += line.Quantity
	}

	// sorted so the reported product is deterministic
	names := make([]string, 0, len(claimed))
	for name := range claimed {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if claimed[name] > withdrawn[name] {
			return &OverAllocationError{Product: name, Claimed: claimed[name], Withdrawn: withdrawn[name]}
		}
	}
	return nil
}

// Distribute validates every line against the withdrawal before writing
// anything, then records distributions and returns and completes the withdrawal.
func (s *distributionService) Distribute(ctx context.Context, actor Actor, withdrawalID uuid.UUID, req *DistributeRequest) (*model.Withdrawal, error) {
	if err := actor.require(model.RoleUser); err != nil {
		return nil, err
	}

	distributionLines, returnLines := req.validLines()
	returnedStock := map[string]int{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		withdrawals := s.withdrawalRepo.WithTx(tx)

		withdrawal, err := withdrawals.FindByIDForUpdate(ctx, withdrawalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("withdrawal", withdrawalID)
		}
		if err != nil {
			return err
		}
		if withdrawal.Status == model.WithdrawalCompleted {
			return validationf("withdrawal #%s has already been distributed", withdrawalID)
		}

		if err := Reconcile(withdrawal.WithdrawnQuantities(), distributionLines, returnLines); err != nil {
			return err
		}

		productIDs := make(map[string]uuid.UUID, len(withdrawal.Items))
		for _, item := range withdrawal.Items {
			productIDs[item.ProductName] = item.ProductID
		}

		distributions := make([]model.Distribution, 0, len(distributionLines))
		summary := make([]string, 0, len(distributionLines)+len(returnLines))
		for _, line := range distributionLines {
			distributions = append(distributions, model.Distribution{
				WithdrawalID:    withdrawal.ID,
				ProductID:       productIDs[line.ProductName],
				ProductName:     line.ProductName,
				DestinationUnit: line.DestinationUnit,
				Quantity:        line.Quantity,
			})
			summary = append(summary, fmt.Sprintf("%dx %s to %s", line.Quantity, line.ProductName, line.DestinationUnit))
		}
		if err := withdrawals.CreateDistributions(ctx, distributions); err != nil {
			return err
		}

		ledger := stockLedger{products: s.productRepo.WithTx(tx)}
		ids := make([]uuid.UUID, 0, len(returnLines))
		for _, line := range returnLines {
			ids = append(ids, productIDs[line.ProductName])
		}
		if err := ledger.lockInOrder(ctx, ids); err != nil {
			return err
		}
		returns := make([]model.Return, 0, len(returnLines))
		for _, line := range returnLines {
			product, err := ledger.increment(ctx, productIDs[line.ProductName], line.Quantity, actor)
			if err != nil {
				return err
			}
			returnedStock[product.Name] = product.Quantity
			returns = append(returns, model.Return{
				WithdrawalID: &withdrawal.ID,
				ProductID:    product.ID,
				ProductName:  line.ProductName,
				Quantity:     line.Quantity,
				Responsible:  actor.auditName(),
				Origin:       ReturnOrigin(withdrawal.ID),
			})
			summary = append(summary, fmt.Sprintf("returned %dx %s", line.Quantity, line.ProductName))
		}
		if err := s.returnRepo.WithTx(tx).Create(ctx, returns); err != nil {
			return err
		}

		if err := withdrawals.UpdateStatus(ctx, withdrawal.ID, model.WithdrawalCompleted, actor.ID.String()); err != nil {
			return err
		}

		details := "no items"
		if len(summary) > 0 {
			details = strings.Join(summary, ", ")
		}
		return s.audit.withTx(tx).record(ctx, actor, ActionDistribution,
			fmt.Sprintf("Withdrawal #%s: %s", withdrawal.ID, details))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("withdrawal distributed",
		zap.String("withdrawal_id", withdrawalID.String()),
		zap.Int("distributions", len(distributionLines)),
		zap.Int("returns", len(returnLines)))
	if len(returnedStock) > 0 {
		s.notifier.Publish(stockEvent("withdrawal_leftover_returned", actor, map[string]interface{}{
			"withdrawal_id": withdrawalID,
			"stock":         returnedStock,
		}, fmt.Sprintf("%s returned leftovers of withdrawal #%s", actor.auditName(), withdrawalID)))
	}

	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}
