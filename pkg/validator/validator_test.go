package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID   uuid.UUID `validate:"uuid_required"`
	Name string    `validate:"notblank"`
	Qty  int       `validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(&sample{ID: uuid.New(), Name: "Mouse", Qty: 1})
	assert.Empty(t, errs)

	errs = ValidateStruct(&sample{Name: "   ", Qty: 0})
	if assert.Len(t, errs, 3) {
		assert.Equal(t, "sample.ID", errs[0].FailedField)
		assert.Equal(t, "uuid_required", errs[0].Tag)
		assert.Equal(t, "notblank", errs[1].Tag)
		assert.Equal(t, "gt", errs[2].Tag)
		assert.Equal(t, "0", errs[2].Value)
	}
}

func TestFirstError(t *testing.T) {
	assert.Equal(t, "", FirstError(&sample{ID: uuid.New(), Name: "x", Qty: 2}))
	assert.Equal(t, "Validation failed: Field 'sample.Qty' failed on tag 'gt'",
		FirstError(&sample{ID: uuid.New(), Name: "x"}))
}
