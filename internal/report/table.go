package report

import (
	"fmt"
	"strings"
	"time"

	"go-itstock/internal/model"
)

const dateTimeLayout = "02/01/2006 15:04"

// Table is a titled grid shared by the PDF and XLSX renderers.
type Table struct {
	Name    string
	Title   string
	Filters string
	Headers []string
	Widths  []float64 // relative column widths, PDF only
	Rows    [][]string
}

// Filename returns "<name>_<id>.<ext>", using "none" when id is empty.
func Filename(name, id, ext string) string {
	if id == "" {
		id = "none"
	}
	return fmt.Sprintf("%s_%s.%s", name, id, ext)
}

// DescribeFilters renders the active history filters for report subtitles.
func DescribeFilters(query string, day time.Time) string {
	parts := []string{}
	if q := strings.TrimSpace(query); q != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", q))
	}
	if !day.IsZero() {
		parts = append(parts, "Date: "+day.Format("02/01/2006"))
	}
	if len(parts) == 0 {
		return "All records"
	}
	return strings.Join(parts, " | ")
}

func WithdrawalsTable(withdrawals []model.Withdrawal, loc *time.Location, filters string) Table {
	t := Table{
		Name:    "withdrawals",
		Title:   "Withdrawal History",
		Filters: filters,
		Headers: []string{"Date", "Requester", "Destination", "Ticket", "Items", "Status"},
		Widths:  []float64{14, 16, 20, 10, 30, 10},
	}
	for _, w := range withdrawals {
		items := make([]string, 0, len(w.Items))
		for _, item := range w.Items {
			items = append(items, fmt.Sprintf("%dx %s", item.Quantity, item.ProductName))
		}
		t.Rows = append(t.Rows, []string{
			w.CreatedAt.In(loc).Format(dateTimeLayout),
			w.Requester,
			w.Destination,
			w.Ticket,
			strings.Join(items, ", "),
			string(w.Status),
		})
	}
	return t
}

func DistributionsTable(distributions []model.Distribution, loc *time.Location, filters string) Table {
	t := Table{
		Name:    "distributions",
		Title:   "Distribution History",
		Filters: filters,
		Headers: []string{"Date", "Withdrawal", "Product", "Destination Unit", "Quantity"},
		Widths:  []float64{16, 24, 24, 26, 10},
	}
	for _, d := range distributions {
		t.Rows = append(t.Rows, []string{
			d.CreatedAt.In(loc).Format(dateTimeLayout),
			shortID(d.WithdrawalID.String()),
			d.ProductName,
			d.DestinationUnit,
			fmt.Sprint(d.Quantity),
		})
	}
	return t
}

func ReturnsTable(returns []model.Return, loc *time.Location, filters string) Table {
	t := Table{
		Name:    "returns",
		Title:   "Return History",
		Filters: filters,
		Headers: []string{"Date", "Product", "Quantity", "Responsible", "Origin"},
		Widths:  []float64{16, 24, 10, 20, 30},
	}
	for _, r := range returns {
		t.Rows = append(t.Rows, []string{
			r.CreatedAt.In(loc).Format(dateTimeLayout),
			r.ProductName,
			fmt.Sprint(r.Quantity),
			r.Responsible,
			r.Origin,
		})
	}
	return t
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
