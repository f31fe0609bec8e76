// Package export writes a fetch result to disk. The scraper itself owns
// no persistence; these writers are a CLI concern.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/omriel/cardscraper/internal/scraper"
)

// WriteJSON writes the full result structure, indented.
func WriteJSON(w io.Writer, result *scraper.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
