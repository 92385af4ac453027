package ledger

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Balance sums the signed amounts of txs.
func Balance(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Signed())
	}
	return total
}

// SortByTimestamp returns a copy of txs ordered oldest first. Ties keep their input order.
func SortByTimestamp(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// PeakBalance is the highest running balance reached over txs.
func PeakBalance(txs []Transaction) decimal.Decimal {
	running := decimal.Zero
	peak := decimal.Zero
	for i, tx := range SortByTimestamp(txs) {
		running = running.Add(tx.Signed())
		if i == 0 || running.GreaterThan(peak) {
			peak = running
		}
	}
	return peak
}
