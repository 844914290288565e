package repository

import (
	"context"
	"testing"
	"time"

	"go-itstock/internal/model"
	"go-itstock/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	f := HistoryFilter{Day: time.Date(2024, 3, 5, 17, 30, 0, 0, loc)}

	start, end := f.DayBounds()
	assert.Equal(t, time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, time.Date(2024, 3, 6, 3, 0, 0, 0, time.UTC), end.UTC())
}

func seedReturns(t *testing.T, repo ReturnRepository, rows ...model.Return) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), rows))
}

func TestReturnHistoryFiltersByLocalDay(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReturnRepo(db)
	loc := time.FixedZone("BRT", -3*60*60)
	productID := uuid.New()

	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts.UTC()
	}
	seedReturns(t, repo,
		model.Return{ProductID: productID, ProductName: "Mouse", Quantity: 1, Responsible: "ana", Origin: "before", CreatedAt: at("2024-03-05T02:59:00Z")},
		model.Return{ProductID: productID, ProductName: "Mouse", Quantity: 1, Responsible: "ana", Origin: "start", CreatedAt: at("2024-03-05T03:00:00Z")},
		model.Return{ProductID: productID, ProductName: "Cable", Quantity: 1, Responsible: "bruno", Origin: "late", CreatedAt: at("2024-03-06T02:59:59Z")},
		model.Return{ProductID: productID, ProductName: "Cable", Quantity: 1, Responsible: "bruno", Origin: "after", CreatedAt: at("2024-03-06T03:00:00Z")},
	)

	day, err := time.ParseInLocation("2006-01-02", "2024-03-05", loc)
	require.NoError(t, err)

	page, err := repo.History(context.Background(), HistoryFilter{Day: day})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	origins := []string{}
	for _, r := range page.Items {
		origins = append(origins, r.Origin)
	}
	assert.Equal(t, []string{"late", "start"}, origins)

	page, err = repo.History(context.Background(), HistoryFilter{Day: day, Query: "BRUNO"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "late", page.Items[0].Origin)
}

func TestReturnHistoryPaginates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReturnRepo(db)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	rows := []model.Return{}
	for i := 0; i < 5; i++ {
		rows = append(rows, model.Return{ProductID: uuid.New(), ProductName: "Mouse", Quantity: i + 1, Responsible: "ana", Origin: "x", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	seedReturns(t, repo, rows...)

	page, err := repo.History(context.Background(), HistoryFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Items[0].Quantity)
	assert.Equal(t, 2, page.Items[1].Quantity)

	all, err := repo.History(context.Background(), HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
}

func TestWithdrawalHistoryMatchesItemProducts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewWithdrawalRepo(db)
	ctx := context.Background()

	for _, w := range []*model.Withdrawal{
		{Requester: "ana", Destination: "North Clinic", Status: model.WithdrawalPending, Items: []model.WithdrawnItem{{ProductID: uuid.New(), ProductName: "Mouse", Quantity: 1}}},
		{Requester: "bruno", Destination: "South Clinic", Status: model.WithdrawalPending, Items: []model.WithdrawnItem{{ProductID: uuid.New(), ProductName: "Monitor", Quantity: 2}}},
	} {
		require.NoError(t, repo.Create(ctx, w))
	}

	page, err := repo.History(ctx, HistoryFilter{Query: "mou"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "North Clinic", page.Items[0].Destination)
	assert.Len(t, page.Items[0].Items, 1)

	page, err = repo.History(ctx, HistoryFilter{Query: "clinic"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
}
