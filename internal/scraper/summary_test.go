package scraper

import (
	"context"
	"testing"

	bt "github.com/omriel/cardscraper/internal/browser/browsertest"
)

func TestFetchSummaries(t *testing.T) {
	doc := overviewPage(
		overviewCard(
			"FlyCard", "1234",
			"(10/07/2023)",
			"₪1,200.30",
			"₪250",
			"₪3,500.50",
			"מתוך ₪10,000",
		),
		overviewCard(
			"Gold", "5678",
			"()",
			"₪0",
			"₪0",
			"₪100",
			"מתוך ₪5,000",
		),
	)
	docs := func(url string) *bt.Node {
		if url == homePageURL {
			return doc
		}
		return nil
	}

	s, _ := newTestScraper(docs, Options{})
	summaries, err := s.fetchSummaries(context.Background())
	if err != nil {
		t.Fatalf("fetchSummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	first, ok := summaries["1234"]
	if !ok {
		t.Fatal("summary for 1234 missing")
	}
	if first.CardName != "FlyCard" {
		t.Errorf("cardName = %q, want FlyCard", first.CardName)
	}
	if first.UpcomingLocalCharge != 1200.30 {
		t.Errorf("upcoming local charge = %v, want 1200.30", first.UpcomingLocalCharge)
	}
	if first.UpcomingForeignChargeLocal != 250 {
		t.Errorf("upcoming foreign charge = %v, want 250", first.UpcomingForeignChargeLocal)
	}
	if first.CreditUtilization != 3500.50 {
		t.Errorf("utilization = %v, want 3500.50", first.CreditUtilization)
	}
	if first.CreditLimit != 10000 {
		t.Errorf("credit limit = %v, want 10000", first.CreditLimit)
	}
	if first.ChargedDayOfMonth == nil || *first.ChargedDayOfMonth != 10 {
		t.Errorf("charged day = %v, want 10", first.ChargedDayOfMonth)
	}

	// Empty charge-date fragment: no day of month, not an error.
	second := summaries["5678"]
	if second.ChargedDayOfMonth != nil {
		t.Errorf("charged day = %v, want nil for empty fragment", *second.ChargedDayOfMonth)
	}
}

func TestFetchSummaries_MissingToggleFails(t *testing.T) {
	empty := bt.Elem(map[string][]*bt.Node{})
	docs := func(url string) *bt.Node { return empty }

	s, _ := newTestScraper(docs, Options{})
	if _, err := s.fetchSummaries(context.Background()); err == nil {
		t.Fatal("expected failure when the card list toggle is missing")
	}
}
