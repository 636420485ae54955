// Package export renders realization tables as CSV artifacts.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/newthinker/realize/internal/realization"
	"golang.org/x/text/encoding/unicode"
)

// DateLayout is the date format of the Date column.
const DateLayout = "2006-01-02"

// Header lists the CSV columns in order.
var Header = []string{"Date", "Result", "Entry Price", "Current Price", "Percent Change"}

// EncodeCSV writes one row per record under Header. With bom set the output
// starts with a UTF-8 byte order mark so spreadsheet tools detect the encoding.
func EncodeCSV(records []realization.Record, bom bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(DateLayout),
			r.Outcome.Description(),
			r.EntryPrice.String(),
			r.CurrentPrice.String(),
			r.FormattedChange(),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	if !bom {
		return buf.Bytes(), nil
	}
	out, err := unicode.UTF8BOM.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("adding byte order mark: %w", err)
	}
	return out, nil
}
