package scraper

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	localCurrencySymbol = "₪"
	localCurrency       = "ILS"

	// The portal renders every date as DD/MM/YYYY.
	dateLayout = "02/01/2006"
)

// Transaction type labels as the portal prints them.
const (
	typeLabelNormal             = "רגילה"
	typeLabelATM                = "חיוב עסקות מיידי"
	typeLabelInternetOrAbroad   = `אינטרנט/חו"ל`
	typeLabelInstallments       = "תשלומים"
	typeLabelMonthlyCharge      = "חיוב חודשי"
	typeLabelPostponedOneMonth  = "דחוי חודש"
	typeLabelPostponedTwoMonths = "דחוי חודשיים"
)

// classifyTransactionType maps a scraped type label to its type. An
// unknown label is an error that fails the whole fetch: a silently
// misclassified transaction is worse than no result.
func classifyTransactionType(label string) (TransactionType, error) {
	switch strings.TrimSpace(label) {
	case typeLabelNormal,
		typeLabelATM,
		typeLabelMonthlyCharge,
		typeLabelPostponedOneMonth,
		typeLabelPostponedTwoMonths,
		typeLabelInternetOrAbroad:
		return TransactionTypeNormal, nil
	case typeLabelInstallments:
		return TransactionTypeInstallments, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", label)
	}
}

var leadingNumberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// parseLeadingFloat parses the longest numeric prefix of s, returning NaN
// when there is none. Malformed amounts deliberately flow through as NaN
// instead of failing the fetch.
func parseLeadingFloat(s string) float64 {
	m := leadingNumberPattern.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// parseLocaleFloat parses a locale-formatted numeral with thousands
// separators, e.g. "12,345.67".
func parseLocaleFloat(s string) float64 {
	return parseLeadingFloat(strings.ReplaceAll(s, ",", ""))
}

type amountData struct {
	amount   float64
	currency string
}

// parseAmount splits a scraped amount string into numeral and currency.
// The local-currency glyph marks local amounts ("₪120"); anything else is
// expected to be "<numeral> <code>" ("45.5 USD"). An unparseable numeral
// yields NaN and whatever currency token was found.
func parseAmount(s string) amountData {
	s = strings.ReplaceAll(s, ",", "")
	if strings.Contains(s, localCurrencySymbol) {
		return amountData{
			amount:   parseLeadingFloat(strings.ReplaceAll(s, localCurrencySymbol, "")),
			currency: localCurrency,
		}
	}

	parts := strings.Fields(s)
	if len(parts) == 0 {
		return amountData{amount: math.NaN()}
	}
	data := amountData{amount: parseLeadingFloat(parts[0])}
	if len(parts) > 1 {
		data.currency = parts[1]
	}
	return data
}

var digitRunPattern = regexp.MustCompile(`\d+`)

// parseInstallments reads the installment position out of a free-text
// comment, e.g. "תשלום 2 מתוך 5". Fewer than two digit runs means the row
// carries no installment info, which is not an error.
func parseInstallments(comments string) *Installments {
	runs := digitRunPattern.FindAllString(comments, -1)
	if len(runs) < 2 {
		return nil
	}
	number, err := strconv.Atoi(runs[0])
	if err != nil {
		return nil
	}
	total, err := strconv.Atoi(runs[1])
	if err != nil {
		return nil
	}
	return &Installments{Number: number, Total: total}
}

// parseDate reads a DD/MM/YYYY string as a calendar date at local
// midnight. An unparseable date yields the zero time.
func parseDate(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
