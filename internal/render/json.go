package render

import (
	"encoding/json"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
)

// JSONRenderer writes exports as an array of objects keyed by the
// configured columns. Zero entries produce an empty array.
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Render(config *fiscalconfig.FiscalConfiguration, entries []Entry) ([]byte, error) {
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		row := make(map[string]string, len(config.RequiredColumns))
		for _, column := range config.RequiredColumns {
			row[column] = columnValue(config, e, column)
		}
		rows = append(rows, row)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to marshal JSON export").
			Mark(ierr.ErrRender)
	}
	return out, nil
}
