// Package login runs the single-submission login flow against the card
// portal: fill the credential fields, submit, and classify the URL the site
// lands on. Multi-factor flows are out of scope.
package login

import (
	"context"
	"fmt"
	"strings"

	"github.com/omriel/cardscraper/internal/browser"
	"github.com/omriel/cardscraper/internal/logger"
)

// Outcome classifies where the portal sent us after submitting credentials.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeInvalidPassword Outcome = "invalid_password"
)

// Field is one credential input to fill before submitting.
type Field struct {
	Selector string
	Value    string
}

// Flow describes a portal's login page: where it lives, which inputs take
// the credentials, what to click, and which landing URLs mean what.
type Flow struct {
	URL            string
	Fields         []Field
	SubmitSelector string

	// Results maps an outcome to the URL prefixes that indicate it.
	Results map[Outcome][]string
}

// Run executes the flow on the given page. It returns the classified
// outcome, or an error when the landing URL matches no known result.
func Run(ctx context.Context, page browser.Page, flow Flow) (Outcome, error) {
	log := logger.FromContext(ctx)

	if err := page.Navigate(ctx, flow.URL); err != nil {
		return "", fmt.Errorf("opening login page: %w", err)
	}
	if err := page.WaitReady(ctx); err != nil {
		return "", fmt.Errorf("waiting for login page: %w", err)
	}

	for _, f := range flow.Fields {
		if err := page.Fill(ctx, f.Selector, f.Value); err != nil {
			return "", fmt.Errorf("filling login field: %w", err)
		}
	}

	submit, err := page.QueryOne(ctx, flow.SubmitSelector)
	if err != nil {
		return "", fmt.Errorf("locating submit button: %w", err)
	}
	if submit == nil {
		return "", fmt.Errorf("submit button %q not found", flow.SubmitSelector)
	}
	if err := submit.Click(ctx); err != nil {
		return "", fmt.Errorf("submitting login form: %w", err)
	}
	if err := page.WaitReady(ctx); err != nil {
		return "", fmt.Errorf("waiting after login submit: %w", err)
	}

	current, err := page.URL(ctx)
	if err != nil {
		return "", fmt.Errorf("reading post-login url: %w", err)
	}

	for outcome, prefixes := range flow.Results {
		for _, prefix := range prefixes {
			if strings.HasPrefix(current, prefix) {
				log.Debug().Str("url", current).Str("outcome", string(outcome)).Msg("login classified")
				return outcome, nil
			}
		}
	}

	return "", fmt.Errorf("unexpected post-login url %s", current)
}
