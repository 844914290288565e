package handler

import (
	"go-itstock/internal/report"
	"go-itstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type WithdrawalHandler struct {
	withdrawals   service.WithdrawalService
	distributions service.DistributionService
	pdf           *report.PDFRenderer
}

func NewWithdrawalHandler(withdrawals service.WithdrawalService, distributions service.DistributionService, pdf *report.PDFRenderer) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals, distributions: distributions, pdf: pdf}
}

// CreateWithdrawal POST /api/v1/withdrawals
func (h *WithdrawalHandler) CreateWithdrawal(c *fiber.Ctx) error {
	req := &service.CreateWithdrawalRequest{}
	if isForm(c) {
		var err error
		if req, err = withdrawalForm(readForm(c)); err != nil {
			return respondError(c, err)
		}
	} else if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	withdrawal, err := h.withdrawals.Create(c.UserContext(), getActor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Withdrawal recorded", "data": withdrawal})
}

// GetPending GET /api/v1/withdrawals/pending
func (h *WithdrawalHandler) GetPending(c *fiber.Ctx) error {
	withdrawals, err := h.withdrawals.ListPending(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(withdrawals)
}

// GetWithdrawal GET /api/v1/withdrawals/:id
func (h *WithdrawalHandler) GetWithdrawal(c *fiber.Ctx) error {
	id, err := parseID(c, "withdrawal")
	if err != nil {
		return respondError(c, err)
	}
	withdrawal, err := h.withdrawals.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(withdrawal)
}

// DeleteWithdrawal DELETE /api/v1/withdrawals/:id
func (h *WithdrawalHandler) DeleteWithdrawal(c *fiber.Ctx) error {
	id, err := parseID(c, "withdrawal")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.withdrawals.Delete(c.UserContext(), getActor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Withdrawal deleted"})
}

// Distribute POST /api/v1/withdrawals/:id/distribute
func (h *WithdrawalHandler) Distribute(c *fiber.Ctx) error {
	id, err := parseID(c, "withdrawal")
	if err != nil {
		return respondError(c, err)
	}

	req := &service.DistributeRequest{}
	if isForm(c) {
		if req, err = distributionForm(readForm(c)); err != nil {
			return respondError(c, err)
		}
	} else if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	withdrawal, err := h.distributions.Distribute(c.UserContext(), getActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Withdrawal distributed", "data": withdrawal})
}

// GetReceipt GET /api/v1/withdrawals/:id/receipt.pdf
func (h *WithdrawalHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := parseID(c, "withdrawal")
	if err != nil {
		return respondError(c, err)
	}
	withdrawal, err := h.withdrawals.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	body, err := h.pdf.Receipt(withdrawal)
	if err != nil {
		return err
	}
	return sendFile(c, mimePDF, report.Filename("withdrawal_receipt", id.String(), "pdf"), body)
}

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func sendFile(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(body)
}
