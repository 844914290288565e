package service

import (
	"testing"

	"go-itstock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnDirect(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 1, false)
	cable := f.addProduct(t, "Cable", 1, false)

	returns, err := f.returns.ReturnDirect(f.ctx, f.user, &DirectReturnRequest{
		Origin: "Old lab decommission",
		Items: []DirectReturnLine{
			{ProductID: mouse.ID, Quantity: 4},
			{ProductID: cable.ID, Quantity: 0},
			{ProductID: uuid.Nil, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, "Old lab decommission", returns[0].Origin)
	assert.Nil(t, returns[0].WithdrawalID)
	assert.Equal(t, 5, f.quantity(t, mouse.ID))
	assert.Equal(t, 1, f.quantity(t, cable.ID))
	assert.Equal(t, int64(1), f.auditCount(t, ActionReturn))
}

func TestReturnDirectRejects(t *testing.T) {
	f := newFixture(t, false)
	mouse := f.addProduct(t, "Mouse", 1, false)
	var verr *ValidationError

	_, err := f.returns.ReturnDirect(f.ctx, f.user, &DirectReturnRequest{Origin: " ", Items: []DirectReturnLine{{ProductID: mouse.ID, Quantity: 1}}})
	assert.ErrorAs(t, err, &verr)

	_, err = f.returns.ReturnDirect(f.ctx, f.user, &DirectReturnRequest{Origin: "Donation", Items: []DirectReturnLine{{ProductID: mouse.ID, Quantity: -1}}})
	assert.ErrorAs(t, err, &verr)

	_, err = f.returns.ReturnDirect(f.ctx, f.user, &DirectReturnRequest{
		Origin: "Donation",
		Items:  []DirectReturnLine{{ProductID: mouse.ID, Quantity: 1}, {ProductID: uuid.New(), Quantity: 1}},
	})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	assert.Equal(t, 1, f.quantity(t, mouse.ID))
	assert.Equal(t, int64(0), f.count(t, &model.Return{}, ""))
}
