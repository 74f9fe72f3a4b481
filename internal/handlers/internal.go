package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"arena/internal/services/transaction"
	"arena/internal/services/wallet"
	"arena/internal/utils"
)

// InternalHandler serves the endpoints other backend services call,
// such as the tournament engine and the onboarding flow.
type InternalHandler struct {
	transactionService transaction.Service
	walletService      wallet.Service
}

func NewInternalHandler(transactionService transaction.Service, walletService wallet.Service) *InternalHandler {
	return &InternalHandler{
		transactionService: transactionService,
		walletService:      walletService,
	}
}

// ChargeFee debits a tournament entry fee from a player's wallet.
func (h *InternalHandler) ChargeFee(c *fiber.Ctx) error {
	key, err := idempotencyKey(c)
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		UserID        uint            `json:"user_id"`
		Amount        decimal.Decimal `json:"amount"`
		TournamentRef string          `json:"tournament_ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.transactionService.ChargeTournamentFee(c.Context(), transaction.FeeRequest{
		UserID:         input.UserID,
		Amount:         input.Amount,
		TournamentRef:  input.TournamentRef,
		IdempotencyKey: key,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"transaction": txn,
	})
}

// CreditPrize credits tournament winnings to a player's wallet.
func (h *InternalHandler) CreditPrize(c *fiber.Ctx) error {
	key, err := idempotencyKey(c)
	if err != nil {
		return utils.DomainError(c, err)
	}

	var input struct {
		UserID        uint            `json:"user_id"`
		Amount        decimal.Decimal `json:"amount"`
		TournamentRef string          `json:"tournament_ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.transactionService.CreditPrize(c.Context(), transaction.PrizeRequest{
		UserID:         input.UserID,
		Amount:         input.Amount,
		TournamentRef:  input.TournamentRef,
		IdempotencyKey: key,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"transaction": txn,
	})
}

// CreateWallet provisions a wallet for a new user at onboarding.
func (h *InternalHandler) CreateWallet(c *fiber.Ctx) error {
	var input struct {
		UserID   uint   `json:"user_id"`
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.UserID == 0 {
		return utils.BadRequest(c, "user_id is required")
	}

	w, err := h.walletService.CreateWallet(c.Context(), input.UserID, input.Currency)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"wallet": w,
	})
}
