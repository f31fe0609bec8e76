package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/omriel/cardscraper/internal/browser"
	"github.com/omriel/cardscraper/internal/logger"
)

// transactionsURL builds the charges view URL. A zero month requests the
// current/uncharged period; otherwise the view is scoped to that billing
// month.
func transactionsURL(month time.Time) string {
	u, _ := url.Parse(baseURL)
	u.Path = "/Registred/Transactions/ChargesDeals.aspx"

	q := url.Values{}
	if month.IsZero() {
		q.Set("ActionType", "1")
	} else {
		q.Set("ActionType", "2")
		q.Set("MonthCharge", month.Format("200601"))
	}
	q.Set("Index", "-2")
	u.RawQuery = q.Encode()
	return u.String()
}

var parenStripper = strings.NewReplacer("(", "", ")", "")

// accountNumber reads the card number off a card container's name list,
// where it appears parenthesized as the second item.
func accountNumber(ctx context.Context, page browser.Page, cardIndex int) (string, error) {
	cards, err := page.QueryAll(ctx, cardContainerSelector)
	if err != nil {
		return "", err
	}
	if cardIndex >= len(cards) {
		return "", fmt.Errorf("card container %d not found (page has %d)", cardIndex, len(cards))
	}

	nameList, err := cards[cardIndex].QueryOne(ctx, cardNameListSelector)
	if err != nil {
		return "", err
	}
	if nameList == nil {
		return "", fmt.Errorf("card %d has no name list", cardIndex)
	}

	items, err := nameList.QueryAll(ctx, "li")
	if err != nil {
		return "", err
	}
	if len(items) < 2 {
		return "", fmt.Errorf("card %d name list has %d items, want 2", cardIndex, len(items))
	}

	text, err := items[1].Text(ctx)
	if err != nil {
		return "", err
	}
	return parenStripper.Replace(text), nil
}

// fetchMonth opens a dedicated page on the month-scoped charges view
// (or the current/uncharged view for a zero month), walks every section of
// every card to completion, and returns the normalized transactions keyed
// by account number.
func (s *Scraper) fetchMonth(ctx context.Context, month time.Time) (map[string][]Transaction, error) {
	log := logger.FromContext(ctx)

	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	viewURL := transactionsURL(month)
	if err := page.Navigate(ctx, viewURL); err != nil {
		return nil, err
	}
	if err := page.WaitReady(ctx); err != nil {
		return nil, err
	}

	cards, err := page.QueryAll(ctx, cardContainerSelector)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]Transaction, len(cards))
	for cardIndex := range cards {
		sections, err := cardSections(ctx, page, cardIndex)
		if err != nil {
			return nil, err
		}

		var raw []rawTransaction
		for sectionIndex := range sections {
			sectionRows, err := walkSectionPages(ctx, page, cardIndex, sectionIndex)
			if err != nil {
				return nil, err
			}
			raw = append(raw, sectionRows...)
		}

		number, err := accountNumber(ctx, page, cardIndex)
		if err != nil {
			return nil, err
		}
		txns, err := convertTransactions(raw)
		if err != nil {
			return nil, err
		}
		result[number] = txns
	}

	monthLabel := "current"
	if !month.IsZero() {
		monthLabel = month.Format("2006-01")
	}
	log.Debug().Str("month", monthLabel).Int("cards", len(cards)).Msg("month view fetched")

	return result, nil
}
