package scraper

import "time"

// TransactionType tells a one-off charge apart from one leg of an
// installment plan.
type TransactionType string

const (
	TransactionTypeNormal       TransactionType = "normal"
	TransactionTypeInstallments TransactionType = "installments"
)

// Installments is the position of a charge within an installment plan,
// 1-based on both fields.
type Installments struct {
	Number int `json:"number"`
	Total  int `json:"total"`
}

// Transaction is one normalized ledger entry. Amounts are negative for
// charges: the portal shows charge magnitudes as positive, and the sign is
// inverted during normalization.
type Transaction struct {
	Type TransactionType `json:"type"`

	// Date is the purchase date; ProcessedDate is when the charge posted.
	Date          time.Time `json:"date"`
	ProcessedDate time.Time `json:"processedDate"`

	// OriginalAmount is in OriginalCurrency; ChargedAmount is in the
	// account's settlement currency.
	OriginalAmount   float64 `json:"originalAmount"`
	OriginalCurrency string  `json:"originalCurrency"`
	ChargedAmount    float64 `json:"chargedAmount"`

	Description  string        `json:"description"`
	Installments *Installments `json:"installments,omitempty"`
}

// AccountSummary is the per-card state scraped from the overview page.
type AccountSummary struct {
	CardName          string  `json:"cardName"`
	CreditLimit       float64 `json:"creditLimit"`
	CreditUtilization float64 `json:"creditUtilization"`

	// ChargedDayOfMonth is nil when the overview shows no upcoming charge
	// date for the card.
	ChargedDayOfMonth *int `json:"chargedDayOfMonth"`

	UpcomingLocalCharge        float64 `json:"upcomingCardLocalCharge"`
	UpcomingForeignChargeLocal float64 `json:"upcomingCardForeignChargeInILS"`
}

// Account joins a card's summary with its finalized transaction ledger.
// Summary is nil when the overview page had no card matching the number.
type Account struct {
	AccountNumber string          `json:"accountNumber"`
	Summary       *AccountSummary `json:"summary,omitempty"`
	Transactions  []Transaction   `json:"txns"`
}

// Result is the top-level output of one fetch invocation.
type Result struct {
	Success  bool      `json:"success"`
	Accounts []Account `json:"accounts"`
}

// Options controls one fetch invocation.
type Options struct {
	// StartDate is the earliest transaction date of interest. Zero means
	// one year back; either way the window never exceeds one year.
	StartDate time.Time

	// CombineInstallments leaves installment rows exactly as scraped
	// (no date fixing) and keeps them even when they fall outside the
	// window. When false, the default, installment dates are adjusted to
	// the billing cycle they belong to.
	CombineInstallments bool
}

// Credentials authenticates against the portal's login page.
type Credentials struct {
	Username string
	Password string
}

// rawTransaction carries the untyped cell texts of one scraped table row.
// Rows live only between extraction and normalization.
type rawTransaction struct {
	typeLabel      string
	date           string
	processedDate  string
	originalAmount string
	chargedAmount  string
	description    string
	comments       string
}
