package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"arena/internal/services/transaction"
	"arena/internal/utils"
)

type DepositHandler struct {
	transactionService transaction.Service
}

func NewDepositHandler(transactionService transaction.Service) *DepositHandler {
	return &DepositHandler{
		transactionService: transactionService,
	}
}

// Initialize starts a deposit. The entry stays PENDING until the
// payment collector confirms or cancels it.
func (h *DepositHandler) Initialize(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	key, err := idempotencyKey(c)
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	resp, err := h.transactionService.InitializeDeposit(c.Context(), transaction.DepositRequest{
		UserID:         claims.UserID,
		Amount:         input.Amount,
		Currency:       input.Currency,
		IdempotencyKey: key,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, resp)
}

// Confirm settles a pending deposit after the collector reports the
// payment as captured.
func (h *DepositHandler) Confirm(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		GatewayReference string `json:"gateway_reference"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.transactionService.ConfirmDeposit(c.Context(), id, input.GatewayReference)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": txn,
	})
}

// Cancel voids a pending deposit with a reason.
func (h *DepositHandler) Cancel(c *fiber.Ctx) error {
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

	txn, err := h.transactionService.CancelDeposit(c.Context(), id, input.Reason)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": txn,
	})
}
