package notifications

import "time"

// Confirmation records that an order confirmation is due for a completed
// checkout. Actual mail delivery is handled outside this backend; the
// back-office reads these records to follow up.
type Confirmation struct {
	UID           string
	SessionUID    string
	OrderUID      string
	CustomerEmail string
	Total         float64
	Currency      string
	CreatedAt     time.Time
}
