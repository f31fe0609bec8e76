// Package browser defines the automation surface the scraper drives and a
// chromedp-backed implementation of it. The scraper core never talks to
// Chrome directly; it only sees these interfaces, which keeps the core
// testable against an in-memory fake (see browsertest).
package browser

import "context"

// Element is a handle to a single DOM node. Queries are scoped to the
// element's subtree.
type Element interface {
	// QueryAll returns every descendant matching the selector, in document
	// order. An empty slice (not an error) means no match.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// QueryOne returns the first descendant matching the selector, or
	// (nil, nil) when there is none.
	QueryOne(ctx context.Context, selector string) (Element, error)

	// Text returns the rendered inner text of the node.
	Text(ctx context.Context) (string, error)

	// Click simulates a mouse click on the node.
	Click(ctx context.Context) error
}

// Page is a single tab. All operations on one Page are sequential; the
// scraper never issues overlapping reads against the same tab.
type Page interface {
	// Navigate loads the URL and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// WaitReady blocks until the current document is ready. Called after
	// actions that trigger a navigation, such as clicking a paging link.
	WaitReady(ctx context.Context) error

	// URL reports the current location.
	URL(ctx context.Context) (string, error)

	// Fill types the value into the input matching the selector.
	Fill(ctx context.Context, selector, value string) error

	// QueryAll returns every node in the document matching the selector.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// QueryOne returns the first node matching the selector, or (nil, nil).
	QueryOne(ctx context.Context, selector string) (Element, error)

	// Close releases the tab.
	Close() error
}

// Browser owns one automation session and hands out independent pages.
// NewPage may be called from concurrent goroutines; each returned Page is
// owned by a single caller.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}
