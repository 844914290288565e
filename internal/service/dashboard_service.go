package service

import (
	"context"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"
)

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	ActivityHistory(ctx context.Context, actor Actor, filter repository.HistoryFilter) (*repository.Page[model.ActivityLog], error)
}

type DashboardStats struct {
	TotalProducts      int64           `json:"total_products"`
	TotalQuantity      int64           `json:"total_quantity"`
	LowStockThreshold  int             `json:"low_stock_threshold"`
	LowStockCount      int64           `json:"low_stock_count"`
	LowStockProducts   []model.Product `json:"low_stock_products"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
}

type dashboardService struct {
	productRepo       repository.ProductRepository
	withdrawalRepo    repository.WithdrawalRepository
	activityRepo      repository.ActivityRepository
	lowStockThreshold int
}

func NewDashboardService(pRepo repository.ProductRepository, wRepo repository.WithdrawalRepository, aRepo repository.ActivityRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		productRepo:       pRepo,
		withdrawalRepo:    wRepo,
		activityRepo:      aRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// GetDashboardStats reports stock totals. A product is low on stock when its
// quantity is at or below the threshold.
func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{LowStockThreshold: s.lowStockThreshold}

	var err error
	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalQuantity, err = s.productRepo.TotalQuantity(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.productRepo.CountLowStock(ctx, s.lowStockThreshold); err != nil {
		return nil, err
	}
	if stats.LowStockProducts, err = s.productRepo.FindLowStock(ctx, s.lowStockThreshold); err != nil {
		return nil, err
	}
	if stats.PendingWithdrawals, err = s.withdrawalRepo.CountPending(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *dashboardService) ActivityHistory(ctx context.Context, actor Actor, filter repository.HistoryFilter) (*repository.Page[model.ActivityLog], error) {
	if err := actor.require(model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.activityRepo.History(ctx, filter)
}
