package scraper

import (
	"sort"
	"time"
)

// fixInstallments moves each non-initial installment charge onto the
// billing cycle it actually belongs to: the portal stamps every leg of a
// plan with the original purchase date, so leg n is shifted forward n-1
// months. Input order is preserved; the input slice is not mutated.
func fixInstallments(txns []Transaction) []Transaction {
	fixed := make([]Transaction, len(txns))
	for i, t := range txns {
		if t.Type == TransactionTypeInstallments && t.Installments != nil && t.Installments.Number > 1 {
			t.Date = t.Date.AddDate(0, t.Installments.Number-1, 0)
		}
		fixed[i] = t
	}
	return fixed
}

// sortTransactionsByDate returns the transactions in ascending date order.
// The sort is stable so same-day rows keep their scraped order.
func sortTransactionsByDate(txns []Transaction) []Transaction {
	sorted := append([]Transaction(nil), txns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// filterOldTransactions drops rows dated before start. With
// combineInstallments set, installment rows are kept regardless of date:
// their principal may predate the window while later legs are still due.
func filterOldTransactions(txns []Transaction, start time.Time, combineInstallments bool) []Transaction {
	var kept []Transaction
	for _, t := range txns {
		if combineInstallments && t.Type == TransactionTypeInstallments {
			kept = append(kept, t)
			continue
		}
		if !t.Date.Before(start) {
			kept = append(kept, t)
		}
	}
	return kept
}

// prepareTransactions is the finalization pass applied per account once
// all month fetches are merged: installment date fixing (unless the caller
// asked to keep installments combined), a stable date sort, then the
// window filter.
func prepareTransactions(txns []Transaction, start time.Time, combineInstallments bool) []Transaction {
	prepared := txns
	if !combineInstallments {
		prepared = fixInstallments(prepared)
	}
	prepared = sortTransactionsByDate(prepared)
	return filterOldTransactions(prepared, start, combineInstallments)
}
