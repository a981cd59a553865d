package report

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Repository defines the interface for report persistence operations
type Repository interface {
	Create(ctx context.Context, report *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	Update(ctx context.Context, report *Report) error
	List(ctx context.Context, filter *types.ReportFilter) ([]*Report, error)
	Count(ctx context.Context, filter *types.ReportFilter) (int, error)
}
