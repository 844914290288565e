package report

import (
	"bytes"
	"testing"
	"time"

	"go-itstock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var brt = time.FixedZone("BRT", -3*60*60)

func sampleWithdrawal() *model.Withdrawal {
	w := &model.Withdrawal{
		Requester:   "Ana Souza",
		Destination: "Unidade Básica Norte",
		Ticket:      "INC-42",
		Status:      model.WithdrawalCompleted,
		Items: []model.WithdrawnItem{
			{ProductName: "Mouse", Quantity: 5},
			{ProductName: "Teclado ABNT2", Quantity: 2},
		},
		Distributions: []model.Distribution{
			{DestinationUnit: "Sala 3", ProductName: "Mouse", Quantity: 3},
		},
	}
	w.ID = uuid.New()
	w.CreatedAt = time.Date(2024, 3, 5, 15, 4, 0, 0, time.UTC)
	return w
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "withdrawal_receipt_abc.pdf", Filename("withdrawal_receipt", "abc", "pdf"))
	assert.Equal(t, "returns_none.xlsx", Filename("returns", "", "xlsx"))
}

func TestDescribeFilters(t *testing.T) {
	assert.Equal(t, "All records", DescribeFilters(" ", time.Time{}))
	assert.Equal(t, `Search: "mouse" | Date: 05/03/2024`, DescribeFilters("mouse", time.Date(2024, 3, 5, 0, 0, 0, 0, brt)))
}

func TestWithdrawalsTableUsesLocalTime(t *testing.T) {
	table := WithdrawalsTable([]model.Withdrawal{*sampleWithdrawal()}, brt, "All records")

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "05/03/2024 12:04", table.Rows[0][0])
	assert.Equal(t, "5x Mouse, 2x Teclado ABNT2", table.Rows[0][4])
	assert.Len(t, table.Rows[0], len(table.Headers))
}

func TestReceiptPDF(t *testing.T) {
	r := NewPDFRenderer("IT Stock", "does-not-exist.png", brt)

	body, err := r.Receipt(sampleWithdrawal())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestTablePDF(t *testing.T) {
	r := NewPDFRenderer("IT Stock", "", brt)
	returns := []model.Return{}
	for i := 0; i < 80; i++ {
		returns = append(returns, model.Return{ProductName: "Cabo HDMI", Quantity: i + 1, Responsible: "João", Origin: "Doação da secretaria", CreatedAt: time.Now()})
	}

	body, err := r.Table(ReturnsTable(returns, brt, "All records"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	empty, err := r.Table(ReturnsTable(nil, brt, "All records"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}

func TestXLSX(t *testing.T) {
	body, err := XLSX(DistributionsTable([]model.Distribution{
		{WithdrawalID: uuid.New(), ProductName: "Mouse", DestinationUnit: "Sala 3", Quantity: 3, CreatedAt: time.Now()},
	}, brt, "All records"))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Distribution History")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Withdrawal", "Product", "Destination Unit", "Quantity"}, rows[0])
	assert.Equal(t, "Sala 3", rows[1][3])
	assert.Equal(t, "3", rows[1][4])
}
