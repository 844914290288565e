package service

import (
	"testing"

	"go-itstock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	withdrawn := map[string]int{"Mouse": 5, "Cable": 2}

	tests := []struct {
		name          string
		distributions []DistributionLine
		returns       []ReturnLine
		wantProduct   string
		wantClaimed   int
	}{
		{name: "exact", distributions: []DistributionLine{{DestinationUnit: "U1", ProductName: "Mouse", Quantity: 3}}, returns: []ReturnLine{{ProductName: "Mouse", Quantity: 2}}},
		{name: "partial", distributions: []DistributionLine{{DestinationUnit: "U1", ProductName: "Cable", Quantity: 1}}},
		{name: "nothing"},
		{name: "over", distributions: []DistributionLine{{DestinationUnit: "U1", ProductName: "Mouse", Quantity: 3}}, returns: []ReturnLine{{ProductName: "Mouse", Quantity: 3}}, wantProduct: "Mouse", wantClaimed: 6},
		{name: "split across units", distributions: []DistributionLine{{DestinationUnit: "U1", ProductName: "Cable", Quantity: 2}, {DestinationUnit: "U2", ProductName: "Cable", Quantity: 1}}, wantProduct: "Cable", wantClaimed: 3},
		{name: "not withdrawn", returns: []ReturnLine{{ProductName: "Monitor", Quantity: 1}}, wantProduct: "Monitor", wantClaimed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Reconcile(withdrawn, tt.distributions, tt.returns)
			if tt.wantProduct == "" {
				assert.NoError(t, err)
				return
			}
			var over *OverAllocationError
			require.ErrorAs(t, err, &over)
			assert.Equal(t, tt.wantProduct, over.Product)
			assert.Equal(t, tt.wantClaimed, over.Claimed)
			assert.Equal(t, withdrawn[tt.wantProduct], over.Withdrawn)
		})
	}
}

func withdrawMice(t *testing.T, f *fixture, stock, take int) (*model.Product, *model.Withdrawal) {
	t.Helper()
	mouse := f.addProduct(t, "Mouse", stock, false)
	withdrawal, err := f.withdrawals.Create(f.ctx, f.user, &CreateWithdrawalRequest{
		Destination: "Health District",
		Items:       []WithdrawalLine{{ProductID: mouse.ID, Quantity: take}},
	})
	require.NoError(t, err)
	return mouse, withdrawal
}

func TestDistributeRejectsOverAllocationWithoutWrites(t *testing.T) {
	f := newFixture(t, false)
	mouse, withdrawal := withdrawMice(t, f, 10, 5)

	_, err := f.distributions.Distribute(f.ctx, f.user, withdrawal.ID, &DistributeRequest{
		Distributions: []DistributionLine{{DestinationUnit: "Unit 1", ProductName: "Mouse", Quantity: 3}},
		Returns:       []ReturnLine{{ProductName: "Mouse", Quantity: 3}},
	})

	var over *OverAllocationError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, OverAllocationError{Product: "Mouse", Claimed: 6, Withdrawn: 5}, *over)

	assert.Equal(t, int64(0), f.count(t, &model.Distribution{}, ""))
	assert.Equal(t, int64(0), f.count(t, &model.Return{}, ""))
	assert.Equal(t, int64(0), f.auditCount(t, ActionDistribution))
	assert.Equal(t, 5, f.quantity(t, mouse.ID))

	loaded, err := f.withdrawals.Get(f.ctx, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WithdrawalPending, loaded.Status)
}

func TestDistributeWritesDistributionsAndReturns(t *testing.T) {
	f := newFixture(t, false)
	mouse, withdrawal := withdrawMice(t, f, 10, 5)

	completed, err := f.distributions.Distribute(f.ctx, f.user, withdrawal.ID, &DistributeRequest{
		Distributions: []DistributionLine{
			{DestinationUnit: "Unit 1", ProductName: "Mouse", Quantity: 3},
			{DestinationUnit: "", ProductName: "Mouse", Quantity: 4},
			{DestinationUnit: "Unit 2", ProductName: "Mouse", Quantity: 0},
		},
		Returns: []ReturnLine{{ProductName: "Mouse", Quantity: 2}, {ProductName: " ", Quantity: 9}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.WithdrawalCompleted, completed.Status)
	require.Len(t, completed.Distributions, 1)
	assert.Equal(t, "Unit 1", completed.Distributions[0].DestinationUnit)
	assert.Equal(t, mouse.ID, completed.Distributions[0].ProductID)
	assert.Equal(t, 7, f.quantity(t, mouse.ID))

	var ret model.Return
	require.NoError(t, f.db.First(&ret).Error)
	assert.Equal(t, 2, ret.Quantity)
	assert.Equal(t, "operator", ret.Responsible)
	assert.Equal(t, "Leftover from withdrawal #"+withdrawal.ID.String(), ret.Origin)
	require.NotNil(t, ret.WithdrawalID)
	assert.Equal(t, withdrawal.ID, *ret.WithdrawalID)

	assert.Equal(t, int64(1), f.auditCount(t, ActionDistribution))
	assert.Contains(t, f.events.actions(), "withdrawal_leftover_returned")
}

func TestDistributeTwiceFails(t *testing.T) {
	f := newFixture(t, false)
	_, withdrawal := withdrawMice(t, f, 3, 1)

	_, err := f.distributions.Distribute(f.ctx, f.user, withdrawal.ID, &DistributeRequest{
		Distributions: []DistributionLine{{DestinationUnit: "Unit 1", ProductName: "Mouse", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.distributions.Distribute(f.ctx, f.user, withdrawal.ID, &DistributeRequest{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, int64(1), f.count(t, &model.Distribution{}, ""))
}

func TestDistributeUnknownWithdrawal(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.distributions.Distribute(f.ctx, f.user, uuid.New(), &DistributeRequest{})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}
