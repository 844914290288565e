package service

import (
	"testing"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t, false)
	empty := f.addProduct(t, "Toner", 1, false)
	f.addProduct(t, "Cable", 1, false)
	mouse := f.addProduct(t, "Mouse", 6, false)

	_, err := f.inventory.Edit(f.ctx, f.user, empty.ID, &EditProductRequest{Name: "Toner", Quantity: 0})
	require.NoError(t, err)
	_, err = f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{Destination: "Lab", Items: []WithdrawalLine{{ProductID: mouse.ID, Quantity: 2}}})
	require.NoError(t, err)

	stats, err := f.dashboard.GetDashboardStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(5), stats.TotalQuantity)
	assert.Equal(t, int64(2), stats.LowStockCount)
	require.Len(t, stats.LowStockProducts, 2)
	assert.Equal(t, "Toner", stats.LowStockProducts[0].Name)
	assert.Equal(t, int64(1), stats.PendingWithdrawals)
}

func TestActivityHistoryIsAdminOnly(t *testing.T) {
	f := newFixture(t, false)
	f.addProduct(t, "Mouse", 1, false)

	_, err := f.dashboard.ActivityHistory(f.ctx, f.user, repository.HistoryFilter{})
	assert.ErrorIs(t, err, ErrAuthorization)

	page, err := f.dashboard.ActivityHistory(f.ctx, f.admin, repository.HistoryFilter{Query: "mouse", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ActionProductCreated, page.Items[0].Action)
	require.NotNil(t, page.Items[0].User)
	assert.Equal(t, "operator", page.Items[0].User.Username)
	assert.IsType(t, model.ActivityLog{}, page.Items[0])
}
