/*
Package withdrawal orchestrates the approval workflow for paying players
out: a user requests a withdrawal, an operator approves or rejects it,
and approval bridges the external payout provider and the ledger.

The approval contract pays first and debits second, inside one database
transaction:

 1. Lock the withdrawal row and verify it still awaits approval.
 2. Call the payout provider. From this point the scope always commits a
    terminal status for the attempt.
 3. Provider failure: commit PAYMENT_FAILED and surface the gateway
    error. Nothing is retried automatically.
 4. Provider success: debit the wallet under its row lock. If the
    balance no longer covers the amount, money has already left the
    provider; commit ERROR_INSUFFICIENT_FUNDS_POST_PAYMENT and raise a
    critical alert for manual reconciliation.
 5. Otherwise commit the debit, the COMPLETED status and the audit
    metadata atomically.

Requests place no hold on the balance; the check at request time is
advisory and the one under the lock at approval decides.
*/
package withdrawal
