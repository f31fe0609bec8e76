package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/omriel/cardscraper/internal/scraper"
)

const dateLayout = "2006-01-02"

// CSVWriter writes one CSV file per account into a directory.
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a writer targeting the given directory.
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// Write writes every account's ledger to <dir>/<accountNumber>.csv.
func (w *CSVWriter) Write(result *scraper.Result) error {
	header := []string{
		"date", "processed_date", "description", "type",
		"original_amount", "original_currency", "charged_amount",
		"installment", "installments_total",
	}

	for _, account := range result.Accounts {
		if len(account.Transactions) == 0 {
			continue
		}
		filename := filepath.Join(w.outputDir, account.AccountNumber+".csv")
		if err := w.writeFile(filename, header, account.Transactions); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeFile(filename string, header []string, txns []scraper.Transaction) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close()

	// BOM so spreadsheet tools pick up UTF-8; descriptions are Hebrew.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("writing BOM to %s: %w", filename, err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", filename, err)
	}

	for _, t := range txns {
		installment, total := "", ""
		if t.Installments != nil {
			installment = strconv.Itoa(t.Installments.Number)
			total = strconv.Itoa(t.Installments.Total)
		}
		record := []string{
			t.Date.Format(dateLayout),
			t.ProcessedDate.Format(dateLayout),
			t.Description,
			string(t.Type),
			fmt.Sprintf("%.2f", t.OriginalAmount),
			t.OriginalCurrency,
			fmt.Sprintf("%.2f", t.ChargedAmount),
			installment,
			total,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row to %s: %w", filename, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", filename, err)
	}
	return nil
}
