package render

import (
	"bytes"
	"strings"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
)

// TXTRenderer writes plain-text exports: one line per entry, columns joined
// by the profile separator. Some legacy accounting imports only accept this.
type TXTRenderer struct{}

func NewTXTRenderer() *TXTRenderer {
	return &TXTRenderer{}
}

func (r *TXTRenderer) Render(config *fiscalconfig.FiscalConfiguration, entries []Entry) ([]byte, error) {
	sep := string(config.ColumnSeparator())

	var buf bytes.Buffer
	buf.WriteString(strings.Join(config.RequiredColumns, sep))
	buf.WriteByte('\n')
	for _, e := range entries {
		buf.WriteString(strings.Join(rowValues(config, e), sep))
		buf.WriteByte('\n')
	}

	return encodeBytes(config.Encoding, buf.Bytes())
}
