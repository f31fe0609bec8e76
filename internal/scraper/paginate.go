package scraper

import (
	"context"
	"fmt"

	"github.com/omriel/cardscraper/internal/browser"
)

// Selectors for the month-charges page: one container per card, several
// transaction tables per card, paging links at the table foot.
const (
	cardContainerSelector  = ".infoList_holder"
	cardSectionSelector    = ".NotPaddingTable"
	transactionRowSelector = ".jobs_regular"
	nextPageLinkSelector   = ".difdufLeft a"
	cardNameListSelector   = ".creditCard_name"
)

// Cell positions within one transaction row. Extraction happens in a
// single step per row (see rowToRaw), so nothing downstream of it knows
// about column order.
const (
	cellDate           = 1
	cellProcessedDate  = 2
	cellDescription    = 3
	cellType           = 4
	cellOriginalAmount = 5
	cellChargedAmount  = 6
	cellComments       = 7

	rowCellCount = 8
)

// cardSections resolves the transaction tables of one card container.
// Resolved fresh on every call: paging replaces the DOM, so handles from
// before a page advance must not be reused.
func cardSections(ctx context.Context, page browser.Page, cardIndex int) ([]browser.Element, error) {
	cards, err := page.QueryAll(ctx, cardContainerSelector)
	if err != nil {
		return nil, err
	}
	if cardIndex >= len(cards) {
		return nil, fmt.Errorf("card container %d not found (page has %d)", cardIndex, len(cards))
	}
	return cards[cardIndex].QueryAll(ctx, cardSectionSelector)
}

// rowToRaw reads every cell of one table row into a named-field record.
func rowToRaw(ctx context.Context, row browser.Element) (rawTransaction, error) {
	cells, err := row.QueryAll(ctx, "td")
	if err != nil {
		return rawTransaction{}, err
	}
	if len(cells) < rowCellCount {
		return rawTransaction{}, fmt.Errorf("transaction row has %d cells, want %d", len(cells), rowCellCount)
	}

	texts := make([]string, rowCellCount)
	for i := range texts {
		if texts[i], err = cells[i].Text(ctx); err != nil {
			return rawTransaction{}, fmt.Errorf("reading row cell %d: %w", i, err)
		}
	}

	return rawTransaction{
		typeLabel:      texts[cellType],
		date:           texts[cellDate],
		processedDate:  texts[cellProcessedDate],
		originalAmount: texts[cellOriginalAmount],
		chargedAmount:  texts[cellChargedAmount],
		description:    texts[cellDescription],
		comments:       texts[cellComments],
	}, nil
}

// walkSectionPages collects every row of one (card, section) table across
// all of its pages: read the visible rows, follow the "next" link if one
// exists, wait for the reload, repeat. Rows come back in visit order.
// There is no page-count bound; a site that never drops the "next" link
// would keep this walking.
func walkSectionPages(ctx context.Context, page browser.Page, cardIndex, sectionIndex int) ([]rawTransaction, error) {
	var all []rawTransaction
	for {
		sections, err := cardSections(ctx, page, cardIndex)
		if err != nil {
			return nil, err
		}
		if sectionIndex >= len(sections) {
			return nil, fmt.Errorf("section %d of card %d not found (card has %d)", sectionIndex, cardIndex, len(sections))
		}
		section := sections[sectionIndex]

		rows, err := section.QueryAll(ctx, transactionRowSelector)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			raw, err := rowToRaw(ctx, row)
			if err != nil {
				return nil, err
			}
			all = append(all, raw)
		}

		next, err := section.QueryOne(ctx, nextPageLinkSelector)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return all, nil
		}
		if err := next.Click(ctx); err != nil {
			return nil, fmt.Errorf("advancing to next page: %w", err)
		}
		if err := page.WaitReady(ctx); err != nil {
			return nil, fmt.Errorf("waiting for next page: %w", err)
		}
	}
}
