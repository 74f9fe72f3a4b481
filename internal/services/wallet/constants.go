package wallet

// Default configuration values
const (
	DefaultCurrency = "USD"
)

// Operation names used in metrics labels.
const (
	OpCreateWallet = "create_wallet"
	OpGetWallet    = "get_wallet"
	OpDebit        = "debit"
	OpCredit       = "credit"
)

// Supported wallet currencies. The platform settles everything in USD
// today; the column is wider so this list can grow without a migration.
var supportedCurrencies = map[string]bool{
	"USD": true,
}
