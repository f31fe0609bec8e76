package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/omriel/cardscraper/internal/browser"
	"github.com/omriel/cardscraper/internal/logger"
)

// Selectors for the home/overview page and its expanded card list.
const (
	homePageURL = baseURL + "/Registred/HomePage.aspx"

	showCardListSelector    = "a#PlaceHolderMain_HomePage1_HomePageTop1_lnkShowListDisplay"
	summaryCardSelector     = ".newCreditCard_bg"
	summaryCardTopSelector  = ".newCreditCard_top"
	summaryChargesSelector  = ".newCreditCard_listInfo"
	summaryCreditSelector   = ".creditFrame_width"
	creditLimitOutOfLabel   = "מתוך"
)

// fetchSummaries scrapes the overview page's per-card figures, keyed by
// account number. The detailed list is hidden behind an expand link, so
// one click and a page load come first.
func (s *Scraper) fetchSummaries(ctx context.Context) (map[string]AccountSummary, error) {
	log := logger.FromContext(ctx)

	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, homePageURL); err != nil {
		return nil, err
	}
	if err := page.WaitReady(ctx); err != nil {
		return nil, err
	}

	expand, err := page.QueryOne(ctx, showCardListSelector)
	if err != nil {
		return nil, err
	}
	if expand == nil {
		return nil, fmt.Errorf("card list toggle %q not found", showCardListSelector)
	}
	if err := expand.Click(ctx); err != nil {
		return nil, fmt.Errorf("expanding card list: %w", err)
	}
	if err := page.WaitReady(ctx); err != nil {
		return nil, fmt.Errorf("waiting for card list: %w", err)
	}

	cards, err := page.QueryAll(ctx, summaryCardSelector)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]AccountSummary, len(cards))
	for i, card := range cards {
		number, summary, err := scrapeCardSummary(ctx, card)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		summaries[number] = summary
	}

	log.Debug().Int("cards", len(summaries)).Msg("account summaries fetched")
	return summaries, nil
}

// scrapeCardSummary extracts one card's figures from its overview block.
func scrapeCardSummary(ctx context.Context, card browser.Element) (string, AccountSummary, error) {
	var summary AccountSummary

	top, err := requireOne(ctx, card, summaryCardTopSelector)
	if err != nil {
		return "", summary, err
	}
	nameList, err := requireOne(ctx, top, cardNameListSelector)
	if err != nil {
		return "", summary, err
	}
	nameItems, err := nameList.QueryAll(ctx, "li")
	if err != nil {
		return "", summary, err
	}
	if len(nameItems) < 2 {
		return "", summary, fmt.Errorf("name list has %d items, want 2", len(nameItems))
	}
	if summary.CardName, err = nameItems[0].Text(ctx); err != nil {
		return "", summary, err
	}
	numberText, err := nameItems[1].Text(ctx)
	if err != nil {
		return "", summary, err
	}
	number := parenStripper.Replace(numberText)

	charges, err := requireOne(ctx, card, summaryChargesSelector)
	if err != nil {
		return "", summary, err
	}
	chargeLists, err := charges.QueryAll(ctx, "ul")
	if err != nil {
		return "", summary, err
	}
	if len(chargeLists) < 2 {
		return "", summary, fmt.Errorf("charges block has %d lists, want 2", len(chargeLists))
	}

	localSpans, err := chargeSpans(ctx, chargeLists[0])
	if err != nil {
		return "", summary, fmt.Errorf("local charges: %w", err)
	}
	if len(localSpans) < 2 {
		return "", summary, fmt.Errorf("local charges have %d spans, want 2", len(localSpans))
	}

	// The upcoming charge date is a parenthesized DD/MM/YYYY fragment;
	// an empty fragment simply means no scheduled charge.
	chargeDateText, err := localSpans[1].Text(ctx)
	if err != nil {
		return "", summary, err
	}
	summary.ChargedDayOfMonth = chargeDayOfMonth(chargeDateText)

	localChargeText, err := localSpans[0].Text(ctx)
	if err != nil {
		return "", summary, err
	}
	summary.UpcomingLocalCharge = parseLocaleFloat(stripCurrencyGlyph(localChargeText))

	foreignSpans, err := chargeSpans(ctx, chargeLists[1])
	if err != nil {
		return "", summary, fmt.Errorf("foreign charges: %w", err)
	}
	if len(foreignSpans) < 1 {
		return "", summary, fmt.Errorf("foreign charges have no spans")
	}
	foreignChargeText, err := foreignSpans[0].Text(ctx)
	if err != nil {
		return "", summary, err
	}
	summary.UpcomingForeignChargeLocal = parseLocaleFloat(stripCurrencyGlyph(foreignChargeText))

	credit, err := requireOne(ctx, card, summaryCreditSelector)
	if err != nil {
		return "", summary, err
	}
	utilization, err := requireOne(ctx, credit, "a")
	if err != nil {
		return "", summary, err
	}
	utilizationText, err := utilization.Text(ctx)
	if err != nil {
		return "", summary, err
	}
	summary.CreditUtilization = parseLocaleFloat(stripCurrencyGlyph(utilizationText))

	limit, err := requireOne(ctx, credit, "span")
	if err != nil {
		return "", summary, err
	}
	limitText, err := limit.Text(ctx)
	if err != nil {
		return "", summary, err
	}
	limitText = strings.ReplaceAll(limitText, creditLimitOutOfLabel, "")
	summary.CreditLimit = parseLocaleFloat(stripCurrencyGlyph(limitText))

	return number, summary, nil
}

// chargeSpans resolves the value spans of one charges list, which live in
// its first item.
func chargeSpans(ctx context.Context, list browser.Element) ([]browser.Element, error) {
	items, err := list.QueryAll(ctx, "li")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("list has no items")
	}
	return items[0].QueryAll(ctx, "span")
}

// chargeDayOfMonth extracts the day from a "(DD/MM/YYYY)" fragment. An
// empty or unparseable fragment yields nil, not an error.
func chargeDayOfMonth(text string) *int {
	cleaned := strings.TrimSpace(parenStripper.Replace(text))
	if cleaned == "" {
		return nil
	}
	day, err := strconv.Atoi(strings.SplitN(cleaned, "/", 2)[0])
	if err != nil {
		return nil
	}
	return &day
}

func stripCurrencyGlyph(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, localCurrencySymbol, ""))
}

// requireOne is QueryOne for elements the markup guarantees: absence is a
// scrape failure, not an optional value.
func requireOne(ctx context.Context, parent browser.Element, selector string) (browser.Element, error) {
	el, err := parent.QueryOne(ctx, selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("element %q not found", selector)
	}
	return el, nil
}
