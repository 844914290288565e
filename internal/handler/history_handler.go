package handler

import (
	"context"
	"time"

	"go-itstock/internal/report"
	"go-itstock/internal/repository"
	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Report names accepted by HistoryHandler.
const (
	ReportWithdrawals   = "withdrawals"
	ReportDistributions = "distributions"
	ReportReturns       = "returns"
)

type HistoryHandler struct {
	withdrawals service.WithdrawalService
	returns     service.ReturnService
	pdf         *report.PDFRenderer
	location    *time.Location
	pageSize    int
}

func NewHistoryHandler(withdrawals service.WithdrawalService, returns service.ReturnService, pdf *report.PDFRenderer, loc *time.Location, pageSize int) *HistoryHandler {
	return &HistoryHandler{withdrawals: withdrawals, returns: returns, pdf: pdf, location: loc, pageSize: pageSize}
}

// History returns one page of the named history.
// GET /api/v1/history/{withdrawals,distributions,returns}?q=&date=&page=
func (h *HistoryHandler) History(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := historyQuery(c, h.location, h.pageSize)
		if err != nil {
			return respondError(c, err)
		}

		ctx := c.UserContext()
		switch name {
		case ReportWithdrawals:
			page, err := h.withdrawals.History(ctx, filter)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(page)
		case ReportDistributions:
			page, err := h.withdrawals.DistributionHistory(ctx, filter)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(page)
		case ReportReturns:
			page, err := h.returns.History(ctx, filter)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(page)
		}
		return fiber.ErrNotFound
	}
}

// Report renders every record matching the filters as "pdf" or "xlsx".
// GET /api/v1/reports/{withdrawals,distributions,returns}.{pdf,xlsx}?q=&date=
func (h *HistoryHandler) Report(name, format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := historyQuery(c, h.location, 0)
		if err != nil {
			return respondError(c, err)
		}
		filter.Page, filter.PageSize = 1, 0

		table, err := h.table(c.UserContext(), name, filter)
		if err != nil {
			return respondError(c, err)
		}

		if format == "xlsx" {
			body, err := report.XLSX(table)
			if err != nil {
				return err
			}
			return sendFile(c, mimeXLSX, report.Filename(table.Name, "", "xlsx"), body)
		}
		body, err := h.pdf.Table(table)
		if err != nil {
			return err
		}
		return sendFile(c, mimePDF, report.Filename(table.Name, "", "pdf"), body)
	}
}

func (h *HistoryHandler) table(ctx context.Context, name string, filter repository.HistoryFilter) (report.Table, error) {
	filters := report.DescribeFilters(filter.Query, filter.Day)
	switch name {
	case ReportWithdrawals:
		page, err := h.withdrawals.History(ctx, filter)
		if err != nil {
			return report.Table{}, err
		}
		return report.WithdrawalsTable(page.Items, h.location, filters), nil
	case ReportDistributions:
		page, err := h.withdrawals.DistributionHistory(ctx, filter)
		if err != nil {
			return report.Table{}, err
		}
		return report.DistributionsTable(page.Items, h.location, filters), nil
	case ReportReturns:
		page, err := h.returns.History(ctx, filter)
		if err != nil {
			return report.Table{}, err
		}
		return report.ReturnsTable(page.Items, h.location, filters), nil
	}
	return report.Table{}, fiber.ErrNotFound
}
