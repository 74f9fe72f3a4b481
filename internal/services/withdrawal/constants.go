package withdrawal

// PathWithdrawal is the route fingerprinted by withdrawal requests.
const PathWithdrawal = "/api/wallet/withdrawals"

// Metadata keys written onto withdrawal transactions.
const (
	MetaPayoutDetails   = "payout_details"
	MetaPayoutReference = "payout_reference"
	MetaApprovedBy      = "approved_by"
	MetaApprovalNotes   = "approval_notes"
	MetaRejectedBy      = "rejected_by"
	MetaFailureReason   = "failure_reason"
)

// payoutReferencePrefix namespaces gateway idempotency references so a
// re-driven approval of the same transaction cannot double-pay.
const payoutReferencePrefix = "wd_"

// Pagination bounds for the approval queue.
const (
	defaultApprovalPageSize = 20
	maxApprovalPageSize     = 100
)
