package scraper

import "strings"

// convertTransactions turns scraped rows into typed transactions,
// preserving order and length. The only failure mode is an unrecognized
// type label, which aborts the conversion with no partial output.
func convertTransactions(raw []rawTransaction) ([]Transaction, error) {
	txns := make([]Transaction, 0, len(raw))
	for _, r := range raw {
		txnType, err := classifyTransactionType(r.typeLabel)
		if err != nil {
			return nil, err
		}

		original := parseAmount(r.originalAmount)
		charged := parseAmount(r.chargedAmount)

		txns = append(txns, Transaction{
			Type:          txnType,
			Date:          parseDate(r.date),
			ProcessedDate: parseDate(r.processedDate),
			// The portal shows charges as positive magnitudes; the ledger
			// carries them negated.
			OriginalAmount:   -original.amount,
			OriginalCurrency: original.currency,
			ChargedAmount:    -charged.amount,
			Description:      strings.TrimSpace(r.description),
			Installments:     parseInstallments(r.comments),
		})
	}
	return txns, nil
}
