package service

import (
	"testing"

	"go-itstock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWithdrawalDecrementsStock(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 5, false)
	keyboard := f.addProduct(t, "Keyboard", 2, false)

	withdrawal, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{
		Destination: "Health Unit North",
		Ticket:      "INC-42",
		Items: []WithdrawalLine{
			{ProductID: mouse.ID, Quantity: 2},
			{ProductID: keyboard.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.WithdrawalPending, withdrawal.Status)
	assert.Equal(t, "operator", withdrawal.Requester)
	assert.Equal(t, 3, f.quantity(t, mouse.ID))
	assert.Equal(t, 1, f.quantity(t, keyboard.ID))
	assert.Equal(t, map[string]int{"Mouse": 2, "Keyboard": 1}, withdrawal.WithdrawnQuantities())

	var entry model.ActivityLog
	require.NoError(t, f.db.Where("action = ?", ActionWithdrawal).First(&entry).Error)
	assert.Equal(t, "Items: 2x Mouse, 1x Keyboard to Health Unit North", entry.Details)
	assert.Equal(t, f.user.ID, entry.UserID)

	loaded, err := f.withdrawals.Get(f.ctx, withdrawal.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
	assert.Contains(t, f.events.actions(), "withdrawal_created")
}

func TestCreateWithdrawalIsAllOrNothing(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 5, false)
	keyboard := f.addProduct(t, "Keyboard", 1, false)

	_, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{
		Destination: "Lab",
		Items: []WithdrawalLine{
			{ProductID: mouse.ID, Quantity: 2},
			{ProductID: keyboard.ID, Quantity: 3},
		},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Keyboard", stockErr.Product)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	assert.Equal(t, 5, f.quantity(t, mouse.ID))
	assert.Equal(t, 1, f.quantity(t, keyboard.ID))
	assert.Equal(t, int64(0), f.count(t, &model.Withdrawal{}, ""))
	assert.Equal(t, int64(0), f.count(t, &model.WithdrawnItem{}, ""))
	assert.Equal(t, int64(0), f.auditCount(t, ActionWithdrawal))
}

func TestCreateWithdrawalConsumesRepeatedLinesSequentially(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 3, false)

	_, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{
		Destination: "Lab",
		Items:       []WithdrawalLine{{ProductID: mouse.ID, Quantity: 2}, {ProductID: mouse.ID, Quantity: 2}},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 3, f.quantity(t, mouse.ID))
}

func TestCreateWithdrawalRejectsBadLines(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 3, false)
	var verr *ValidationError

	_, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{Destination: "Lab"})
	assert.ErrorAs(t, err, &verr)

	_, err = f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{Destination: " ", Items: []WithdrawalLine{{ProductID: mouse.ID, Quantity: 1}}})
	assert.ErrorAs(t, err, &verr)

	_, err = f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{Destination: "Lab", Items: []WithdrawalLine{{ProductID: mouse.ID, Quantity: 0}}})
	assert.ErrorAs(t, err, &verr)

	_, err = f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{Destination: "Lab", Items: []WithdrawalLine{{ProductID: uuid.New(), Quantity: 1}}})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	assert.Equal(t, 3, f.quantity(t, mouse.ID))
}

func TestGetWithdrawalNotFound(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.withdrawals.Get(f.ctx, uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteWithdrawalKeepsStock(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 3, false)
	withdrawal, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{
		Destination: "Lab",
		Items:       []WithdrawalLine{{ProductID: mouse.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.withdrawals.Delete(f.ctx, f.user, withdrawal.ID), ErrAuthorization)

	require.NoError(t, f.withdrawals.Delete(f.ctx, f.admin, withdrawal.ID))
	assert.Equal(t, int64(0), f.count(t, &model.Withdrawal{}, ""))
	assert.Equal(t, int64(0), f.count(t, &model.WithdrawnItem{}, ""))
	assert.Equal(t, 2, f.quantity(t, mouse.ID))
	assert.Equal(t, int64(1), f.auditCount(t, ActionWithdrawalDeleted))

	var nf *NotFoundError
	assert.ErrorAs(t, f.withdrawals.Delete(f.ctx, f.admin, withdrawal.ID), &nf)
}

func TestListPendingSkipsCompleted(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 4, false)

	first, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{Destination: "A", Items: []WithdrawalLine{{ProductID: mouse.ID, Quantity: 1}}})
	require.NoError(t, err)
	second, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{Destination: "B", Items: []WithdrawalLine{{ProductID: mouse.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.distributions.Distribute(f.ctx, f.user, first.ID, &DistributeRequest{})
	require.NoError(t, err)

	pending, err := f.withdrawals.ListPending(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
