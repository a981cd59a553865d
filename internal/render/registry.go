package render

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Registry dispatches rendering over the export format kinds. Adding a
// format means registering one more Renderer; callers never switch on the
// format themselves.
type Registry struct {
	source    DataSource
	renderers map[types.ExportFormat]Renderer
	logger    *logger.Logger
}

// NewRegistry creates a registry with all built-in format renderers.
func NewRegistry(source DataSource, log *logger.Logger) *Registry {
	return &Registry{
		source: source,
		renderers: map[types.ExportFormat]Renderer{
			types.ExportFormatCSV:  NewCSVRenderer(),
			types.ExportFormatJSON: NewJSONRenderer(),
			types.ExportFormatXML:  NewXMLRenderer(),
			types.ExportFormatTXT:  NewTXTRenderer(),
			types.ExportFormatPDF:  NewPDFRenderer(),
			types.ExportFormatXLSX: NewXLSXRenderer(),
		},
		logger: log,
	}
}

// Register adds or replaces the renderer for a format.
func (r *Registry) Register(format types.ExportFormat, renderer Renderer) {
	r.renderers[format] = renderer
}

// Render selects the shop's entries within the window and renders them in
// the requested format. A window with no entries yields RowCount zero and a
// valid empty artifact.
func (r *Registry) Render(
	ctx context.Context,
	format types.ExportFormat,
	config *fiscalconfig.FiscalConfiguration,
	shopID string,
	window Window,
) (*Artifact, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, ierr.NewErrorf("no renderer registered for format %s", format).
			WithHint("Export format is not supported").
			Mark(ierr.ErrInvalidOperation)
	}
	if !config.SupportsFormat(format) {
		return nil, ierr.NewErrorf("format %s is not enabled for this fiscal profile", format).
			WithHint("Export format is not enabled in the fiscal configuration").
			Mark(ierr.ErrValidation)
	}

	entries, err := r.source.FetchEntries(ctx, shopID, window)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to select entries for the reporting window").
			Mark(ierr.ErrRender)
	}

	content, err := renderer.Render(config, entries)
	if err != nil {
		return nil, err
	}

	r.logger.Debugw("rendered export",
		"shop_id", shopID,
		"format", format,
		"rows", len(entries),
		"bytes", len(content))

	return &Artifact{Bytes: content, RowCount: len(entries)}, nil
}
