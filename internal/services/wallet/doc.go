/*
Package wallet is the ledger: the only code allowed to change a wallet
balance.

Rules the service enforces:
  - A wallet is created once per user and starts at zero.
  - Balance changes happen inside a caller-supplied database transaction,
    always as lock, re-read, verify, write. Debit re-checks the balance
    under the row lock and refuses to take a wallet negative.
  - Amounts are positive decimals; the transaction type, not the sign,
    decides direction.

Usage:

	svc := wallet.NewService(repo, cache, metrics)

	// Read path (cached)
	w, err := svc.GetWallet(ctx, userID)

	// Inside a transactional scope owned by the caller
	err = txRunner.InTransaction(ctx, func(tx *gorm.DB) error {
	    if _, err := svc.Debit(tx, walletID, amount); err != nil {
	        return err
	    }
	    // write the matching ledger entry in the same scope
	    return txnRepo.Create(tx, entry)
	})
	svc.InvalidateCache(ctx, userID)

Reads are cached in redis and invalidated after every committed balance
change. Cache failures are logged and never fail the operation.
*/
package wallet
