package domain

import "fmt"

const (
	StatusNew        = "new"
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

var allowedTransitions = map[string]map[string]bool{
	StatusNew: {
		StatusPending:    true,
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusPending: {
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusCompleted: {
		StatusRefunded: true,
	},
	StatusCancelled: {},
	StatusRefunded:  {},
}

// ValidTransition checks the order status machine. Same-status updates are
// rejected so callers don't write duplicate history entries.
func ValidTransition(from, to string) error {
	next, ok := allowedTransitions[from]
	if !ok {
		return fmt.Errorf("unknown order status %q", from)
	}
	if !next[to] {
		return fmt.Errorf("invalid order status transition %s -> %s", from, to)
	}
	return nil
}
