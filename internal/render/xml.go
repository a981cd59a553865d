package render

import (
	"bytes"
	"encoding/xml"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
)

// XMLRenderer writes exports as a fiscalExport document with one row element
// per entry and one field element per configured column.
type XMLRenderer struct{}

func NewXMLRenderer() *XMLRenderer {
	return &XMLRenderer{}
}

type xmlField struct {
	XMLName xml.Name `xml:"field"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:",chardata"`
}

type xmlRow struct {
	XMLName xml.Name   `xml:"row"`
	Fields  []xmlField `xml:"field"`
}

type xmlExport struct {
	XMLName xml.Name `xml:"fiscalExport"`
	Code    string   `xml:"code,attr,omitempty"`
	Rows    []xmlRow `xml:"row"`
}

func (r *XMLRenderer) Render(config *fiscalconfig.FiscalConfiguration, entries []Entry) ([]byte, error) {
	doc := xmlExport{Code: config.Code, Rows: make([]xmlRow, 0, len(entries))}
	for _, e := range entries {
		row := xmlRow{Fields: make([]xmlField, 0, len(config.RequiredColumns))}
		for _, column := range config.RequiredColumns {
			row.Fields = append(row.Fields, xmlField{
				Name:  column,
				Value: columnValue(config, e, column),
			})
		}
		doc.Rows = append(doc.Rows, row)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode XML export").
			Mark(ierr.ErrRender)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
