package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/omriel/cardscraper/internal/scraper"
)

func sampleResult() *scraper.Result {
	date := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	return &scraper.Result{
		Success: true,
		Accounts: []scraper.Account{
			{
				AccountNumber: "1234",
				Transactions: []scraper.Transaction{
					{
						Type:             scraper.TransactionTypeNormal,
						Date:             date,
						ProcessedDate:    date.AddDate(0, 0, 1),
						OriginalAmount:   -120,
						OriginalCurrency: "ILS",
						ChargedAmount:    -120,
						Description:      "חנות",
					},
					{
						Type:             scraper.TransactionTypeInstallments,
						Date:             date.AddDate(0, 1, 0),
						ProcessedDate:    date.AddDate(0, 1, 1),
						OriginalAmount:   -900,
						OriginalCurrency: "ILS",
						ChargedAmount:    -300,
						Description:      "TV",
						Installments:     &scraper.Installments{Number: 1, Total: 3},
					},
				},
			},
			{AccountNumber: "5678"},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded scraper.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !decoded.Success {
		t.Error("success flag lost")
	}
	if len(decoded.Accounts) != 2 || decoded.Accounts[0].AccountNumber != "1234" {
		t.Errorf("accounts not round-tripped: %+v", decoded.Accounts)
	}
	if decoded.Accounts[0].Transactions[1].Installments == nil {
		t.Error("installments lost in JSON output")
	}
}

func TestCSVWriter(t *testing.T) {
	dir := t.TempDir()
	if err := NewCSVWriter(dir).Write(sampleResult()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "1234.csv"))
	if err != nil {
		t.Fatalf("expected per-account file: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "\xEF\xBB\xBF") {
		t.Error("missing UTF-8 BOM")
	}
	if !strings.Contains(content, "date,processed_date,description") {
		t.Error("missing header row")
	}
	if !strings.Contains(content, "חנות") {
		t.Error("missing transaction description")
	}
	if !strings.Contains(content, "-120.00") {
		t.Error("missing formatted amount")
	}
	if !strings.Contains(content, "installments") {
		t.Error("missing installment type value")
	}

	// Accounts without transactions get no file.
	if _, err := os.Stat(filepath.Join(dir, "5678.csv")); !os.IsNotExist(err) {
		t.Error("expected no file for empty account")
	}
}
