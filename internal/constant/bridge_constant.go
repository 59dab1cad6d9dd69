package constant

import "regexp"

// Bridge transaction statuses as stored in wormhole_transactions.status.
const (
	TxStatusPending   = "pending"
	TxStatusVaaReady  = "vaa_ready"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

// OpenTxStatuses are the statuses the poller keeps re-checking.
var OpenTxStatuses = []string{TxStatusPending, TxStatusVaaReady}

var txHashPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)

// IsValidTxHash reports whether s is a 0x-prefixed 32-byte hex hash.
func IsValidTxHash(s string) bool {
	return txHashPattern.MatchString(s)
}
