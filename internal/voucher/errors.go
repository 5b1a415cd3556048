package voucher

import "errors"

// MsgNotPaid is the caller-facing message for a voucher request on an unpaid report
const MsgNotPaid = "Payment voucher is only available for paid expense reports"

var (
	// ErrNotPaid is returned when a voucher is requested before settlement
	ErrNotPaid = errors.New("expense report is not paid")

	// ErrNoItemsFound is returned for a report without expense lines
	ErrNoItemsFound = errors.New("no expense items found")
)
