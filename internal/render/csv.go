package render

import (
	"bytes"
	"encoding/csv"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
)

// CSVRenderer writes delimited exports honoring the profile's separator and
// encoding. An export with zero entries still carries the header row.
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) Render(config *fiscalconfig.FiscalConfiguration, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = config.ColumnSeparator()

	if err := w.Write(config.RequiredColumns); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to write CSV header").
			Mark(ierr.ErrRender)
	}
	for _, e := range entries {
		if err := w.Write(rowValues(config, e)); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to write CSV row").
				Mark(ierr.ErrRender)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to flush CSV output").
			Mark(ierr.ErrRender)
	}

	return encodeBytes(config.Encoding, buf.Bytes())
}
