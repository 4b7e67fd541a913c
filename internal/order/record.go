package order

import (
	"fmt"
	"time"

	"github.com/pithomlabs/rainydays/internal/cart"
)

// Record is the immutable snapshot created at checkout submission and
// consumed once by the confirmation view. Shipping is always free, so
// Total is also the amount due.
type Record struct {
	OrderNumber  string            `json:"orderNumber"`
	Date         string            `json:"date"`
	Items        []cart.Line       `json:"items"`
	Total        float64           `json:"total"`
	CustomerInfo map[string]string `json:"customerInfo"`
}

// Number formats an order number like RD-2026-0042. The caller supplies
// the randomness so a replayed checkout reproduces the same number.
func Number(t time.Time, random uint64) string {
	return fmt.Sprintf("RD-%d-%04d", t.Year(), random%10000)
}

// FormatDate renders the order date the way the confirmation page
// shows it.
func FormatDate(t time.Time) string {
	return t.Format("1/2/2006")
}
