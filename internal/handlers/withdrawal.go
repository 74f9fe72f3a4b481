package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
	"arena/internal/services/withdrawal"
	"arena/internal/utils"
	"arena/internal/utils/pagination"
)

type WithdrawalHandler struct {
	withdrawalService withdrawal.Service
}

func NewWithdrawalHandler(withdrawalService withdrawal.Service) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// Request registers a withdrawal for manual approval.
func (h *WithdrawalHandler) Request(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	key, err := idempotencyKey(c)
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		Amount        decimal.Decimal `json:"amount"`
		Currency      string          `json:"currency"`
		PayoutDetails models.JSON     `json:"payout_details"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	resp, err := h.withdrawalService.Request(c.Context(), withdrawal.WithdrawalRequest{
		UserID:         claims.UserID,
		Amount:         input.Amount,
		Currency:       input.Currency,
		PayoutDetails:  input.PayoutDetails,
		IdempotencyKey: key,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, resp)
}

// Approve executes a pending withdrawal. Failures after the payout was
// issued are committed on the transaction, so the error response still
// carries the transaction in its committed state.
func (h *WithdrawalHandler) Approve(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		Notes string `json:"notes"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "invalid request format")
		}
	}

	txn, err := h.withdrawalService.Approve(c.Context(), id, claims.UserID, input.Notes)
	if err != nil {
		if txn != nil {
			payload := domainErrors.Payload(err)
			payload["transaction"] = txn
			return utils.Respond(c, domainErrors.HTTPStatus(err), payload)
		}
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": txn,
	})
}

// Reject declines a pending withdrawal with a reason.
func (h *WithdrawalHandler) Reject(c *fiber.Ctx) error {
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

	txn, err := h.withdrawalService.Reject(c.Context(), id, claims.UserID, input.Reason)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": txn,
	})
}

// ListPending returns the approval queue, oldest first.
func (h *WithdrawalHandler) ListPending(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	items, total, err := h.withdrawalService.ListPendingApprovals(c.Context(), p.Page, p.Limit)
	if err != nil {
		return utils.DomainError(c, err)
	}

	p.Total = total
	return utils.Success(c, pagination.Response(p, items))
}
