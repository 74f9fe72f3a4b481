package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner executes functions inside a database transaction. Services
// declare their own single-method interface over it so business logic
// can be tested without a database.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// InTransaction runs fn inside a transaction. The transaction commits
// when fn returns nil and rolls back when it returns an error.
func (r *TxRunner) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
