package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/omriel/cardscraper/internal/logger"
)

// fetchAllTransactions runs the whole transaction pipeline: derive the
// window, fetch every month view plus the current/uncharged view in
// parallel, merge, and finalize per account.
func (s *Scraper) fetchAllTransactions(ctx context.Context) (map[string][]Transaction, error) {
	log := logger.FromContext(ctx)

	now := s.now()
	start := effectiveStart(s.opts.StartDate, now.AddDate(-1, 0, 0))

	// One task per calendar month in the window, plus the zero month for
	// whatever the site considers the current/uncharged period.
	tasks := append(monthStarts(start, now), time.Time{})

	log.Info().
		Time("window_start", start).
		Int("tasks", len(tasks)).
		Msg("fetching transactions")

	// Each task writes only its own slot; the merge below runs strictly
	// after every task has settled, so no synchronization beyond the join
	// is needed.
	results := make([]map[string][]Transaction, len(tasks))
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	for i, month := range tasks {
		wg.Add(1)
		go func(i int, month time.Time) {
			defer wg.Done()
			results[i], errs[i] = s.fetchMonth(ctx, month)
		}(i, month)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := mergeByAccount(results)
	for number, txns := range merged {
		merged[number] = prepareTransactions(txns, start, s.opts.CombineInstallments)
	}
	return merged, nil
}

// mergeByAccount folds the settled task results into one list per account.
// The fold is a pure reduction: every task's rows for an account are
// appended in task order, and the finalizer's sort is what makes the
// observable output deterministic.
func mergeByAccount(results []map[string][]Transaction) map[string][]Transaction {
	merged := make(map[string][]Transaction)
	for _, result := range results {
		for number, txns := range result {
			merged[number] = append(merged[number], txns...)
		}
	}
	return merged
}
