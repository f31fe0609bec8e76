// Package scraper fetches account summaries and a rolling year of
// transactions from the card portal and normalizes them into a stable,
// per-account ledger. It drives the site exclusively through the browser
// interfaces; it issues no HTTP requests of its own and persists nothing.
package scraper

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/omriel/cardscraper/internal/browser"
	"github.com/omriel/cardscraper/internal/login"
	"github.com/omriel/cardscraper/internal/logger"
)

const baseURL = "https://online.leumi-card.co.il"

// Scraper runs the fetch pipeline against one logged-in browser session.
type Scraper struct {
	browser browser.Browser
	opts    Options
	log     zerolog.Logger

	// now is swapped in tests to pin the one-year window.
	now func() time.Time
}

// New builds a scraper over an authenticated browser session.
func New(b browser.Browser, opts Options, log zerolog.Logger) *Scraper {
	return &Scraper{
		browser: b,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// LoginFlow describes the portal's login page for the login runner.
func LoginFlow(creds Credentials) login.Flow {
	const inputGroup = "PlaceHolderMain_CardHoldersLogin1"
	return login.Flow{
		URL: baseURL + "/Anonymous/Login/CardHoldersLogin.aspx",
		Fields: []login.Field{
			{Selector: "#" + inputGroup + "_txtUserName", Value: creds.Username},
			{Selector: "#" + inputGroup + "_txtPassword", Value: creds.Password},
		},
		SubmitSelector: "#" + inputGroup + "_btnLogin",
		Results: map[login.Outcome][]string{
			login.OutcomeSuccess:         {baseURL + "/Registred/HomePage.aspx"},
			login.OutcomeInvalidPassword: {baseURL + "/Anonymous/Login/CardHoldersLogin.aspx"},
		},
	}
}

// FetchAccountData runs one full invocation: scrape the per-card
// summaries, then the transaction pipeline, and join the two by account
// number. It either returns a complete result or fails; there is no
// partial success.
func (s *Scraper) FetchAccountData(ctx context.Context) (*Result, error) {
	log := s.log.With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx, log)

	summaries, err := s.fetchSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching account summaries: %w", err)
	}

	txnsByAccount, err := s.fetchAllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}

	numbers := make([]string, 0, len(txnsByAccount))
	for number := range txnsByAccount {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	accounts := make([]Account, 0, len(numbers))
	for _, number := range numbers {
		account := Account{
			AccountNumber: number,
			Transactions:  txnsByAccount[number],
		}
		// An account with transactions but no overview card simply has no
		// summary.
		if summary, ok := summaries[number]; ok {
			account.Summary = &summary
		}
		accounts = append(accounts, account)
	}

	log.Info().Int("accounts", len(accounts)).Msg("account data assembled")
	return &Result{Success: true, Accounts: accounts}, nil
}
