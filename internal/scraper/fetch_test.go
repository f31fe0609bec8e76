package scraper

import (
	"context"
	"testing"
	"time"

	bt "github.com/omriel/cardscraper/internal/browser/browsertest"
)

func TestMergeByAccount(t *testing.T) {
	taskA := map[string][]Transaction{
		"1234": {{Description: "a1"}, {Description: "a2"}},
		"5678": {{Description: "x"}},
	}
	taskB := map[string][]Transaction{
		"1234": {{Description: "b1"}},
	}

	merged := mergeByAccount([]map[string][]Transaction{taskA, taskB})

	if len(merged["1234"]) != 3 {
		t.Errorf("account 1234 merged to %d rows, want sum of both tasks (3)", len(merged["1234"]))
	}
	if len(merged["5678"]) != 1 {
		t.Errorf("account 5678 merged to %d rows, want 1", len(merged["5678"]))
	}
	if len(merged) != 2 {
		t.Errorf("merged %d accounts, want 2", len(merged))
	}
}

func TestFetchAllTransactions(t *testing.T) {
	// Every month view serves the same card: one row inside the window,
	// one before it.
	docs := func(string) *bt.Node {
		return txnPage(cardNode("1234", sectionNode(
			normalRow("10/05/2023", "₪120", "kept"),
			normalRow("01/01/2023", "₪50", "dropped"),
		)))
	}

	s, b := newTestScraper(docs, Options{
		StartDate: day(2023, time.April, 20),
	})
	s.now = func() time.Time { return day(2023, time.May, 15) }

	result, err := s.fetchAllTransactions(context.Background())
	if err != nil {
		t.Fatalf("fetchAllTransactions failed: %v", err)
	}

	// April and May month views plus the current/uncharged view.
	pages := b.Pages()
	if len(pages) != 3 {
		t.Fatalf("opened %d pages, want 3", len(pages))
	}
	for i, p := range pages {
		if !p.Closed() {
			t.Errorf("page %d left open", i)
		}
	}

	txns := result["1234"]
	if len(txns) != 3 {
		t.Fatalf("got %d transactions, want one kept row per task", len(txns))
	}
	for i, txn := range txns {
		if txn.Description != "kept" {
			t.Errorf("txn %d: %q survived the window filter", i, txn.Description)
		}
		if txn.Date.Before(day(2023, time.April, 20)) {
			t.Errorf("txn %d predates the window", i)
		}
		if i > 0 && txn.Date.Before(txns[i-1].Date) {
			t.Errorf("txn %d out of order", i)
		}
	}
}

func TestFetchAllTransactions_ClampsToOneYear(t *testing.T) {
	docs := func(string) *bt.Node { return txnPage() }

	s, b := newTestScraper(docs, Options{
		// Three years back; the window must still be one year.
		StartDate: day(2020, time.May, 15),
	})
	s.now = func() time.Time { return day(2023, time.May, 15) }

	if _, err := s.fetchAllTransactions(context.Background()); err != nil {
		t.Fatalf("fetchAllTransactions failed: %v", err)
	}

	// May 2022 through May 2023 inclusive is 13 month views, plus the
	// current/uncharged view.
	if got := len(b.Pages()); got != 14 {
		t.Errorf("opened %d pages, want 14", got)
	}
}

func TestFetchAllTransactions_TaskFailureFailsWhole(t *testing.T) {
	docs := func(string) *bt.Node {
		return txnPage(cardNode("1234", sectionNode(
			txnRow("סוג לא מוכר", "01/05/2023", "01/05/2023", "x", "₪1", "₪1", ""),
		)))
	}

	s, _ := newTestScraper(docs, Options{})
	s.now = func() time.Time { return day(2023, time.May, 15) }

	if _, err := s.fetchAllTransactions(context.Background()); err == nil {
		t.Fatal("expected the classification error to fail the whole fetch")
	}
}
