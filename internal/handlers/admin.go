package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"arena/internal/services/transaction"
	"arena/internal/utils"
)

type AdminHandler struct {
	transactionService transaction.Service
}

func NewAdminHandler(transactionService transaction.Service) *AdminHandler {
	return &AdminHandler{
		transactionService: transactionService,
	}
}

// Adjust applies a manual balance correction to a user's wallet.
func (h *AdminHandler) Adjust(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return utils.DomainError(c, err)
	}
	key, err := idempotencyKey(c)
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
		Credit bool            `json:"credit"`
		Reason string          `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.transactionService.Adjust(c.Context(), transaction.AdjustmentRequest{
		AdminID:        claims.UserID,
		UserID:         userID,
		Amount:         input.Amount,
		Credit:         input.Credit,
		Reason:         input.Reason,
		IdempotencyKey: key,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"transaction": txn,
	})
}

// Refund credits back a completed debit as a new linked entry.
func (h *AdminHandler) Refund(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.transactionService.Refund(c.Context(), transaction.RefundRequest{
		AdminID:               claims.UserID,
		OriginalTransactionID: id,
		Reason:                input.Reason,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"transaction": txn,
	})
}
