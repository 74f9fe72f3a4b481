package handlers

import (
	"github.com/gofiber/fiber/v2"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
	"arena/internal/services/transaction"
	"arena/internal/services/wallet"
	"arena/internal/utils"
	"arena/internal/utils/pagination"
)

type TransactionHandler struct {
	transactionService transaction.Service
	walletService      wallet.Service
}

func NewTransactionHandler(transactionService transaction.Service, walletService wallet.Service) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		walletService:      walletService,
	}
}

// GetHistory returns the caller's transaction history, filtered and
// paginated from the query string.
func (h *TransactionHandler) GetHistory(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)
	q := transaction.HistoryQuery{
		Type:    models.TransactionType(c.Query("type")),
		Status:  models.TransactionStatus(c.Query("status")),
		SortAsc: c.Query("sort") == "asc",
		Page:    p.Page,
		Limit:   p.Limit,
	}
	if from := c.Query("from"); from != "" {
		t, err := parseTimestamp(from)
		if err != nil {
			return utils.BadRequest(c, "invalid from timestamp")
		}
		q.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := parseTimestamp(to)
		if err != nil {
			return utils.BadRequest(c, "invalid to timestamp")
		}
		q.To = t
	}

	items, total, err := h.transactionService.GetHistory(c.Context(), claims.UserID, q)
	if err != nil {
		return utils.DomainError(c, err)
	}

	p.Total = total
	return utils.Success(c, pagination.Response(p, items))
}

// GetTransaction returns a single transaction. Non-admin callers only
// see entries from their own wallet; foreign ids read as not found.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.DomainError(c, err)
	}

	txn, err := h.transactionService.GetTransaction(c.Context(), id)
	if err != nil {
		return utils.DomainError(c, err)
	}

	if !claims.IsAdmin() {
		w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
		if err != nil {
			return utils.DomainError(c, err)
		}
		if w.ID != txn.WalletID {
			return utils.DomainError(c, domainErrors.ErrTransactionNotFound)
		}
	}

	return utils.Success(c, fiber.Map{
		"transaction": txn,
	})
}
