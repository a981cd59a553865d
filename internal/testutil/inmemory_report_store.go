package testutil

import (
	"context"
	"fmt"

	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryReportStore implements report.Repository
type InMemoryReportStore struct {
	*InMemoryStore[*report.Report]
}

func NewInMemoryReportStore() *InMemoryReportStore {
	return &InMemoryReportStore{
		InMemoryStore: NewInMemoryStore[*report.Report](),
	}
}

func copyReport(r *report.Report) *report.Report {
	if r == nil {
		return nil
	}
	out := *r
	if r.StartDate != nil {
		v := *r.StartDate
		out.StartDate = &v
	}
	if r.EndDate != nil {
		v := *r.EndDate
		out.EndDate = &v
	}
	if r.FtpDeliveryStatus != nil {
		v := *r.FtpDeliveryStatus
		out.FtpDeliveryStatus = &v
	}
	return &out
}

func (s *InMemoryReportStore) Create(ctx context.Context, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, r.ID, copyReport(r))
}

func (s *InMemoryReportStore) Get(ctx context.Context, id string) (*report.Report, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "report not found")
	}
	return copyReport(r), nil
}

func (s *InMemoryReportStore) Update(ctx context.Context, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, r.ID, copyReport(r))
}

func reportFilterFn(_ context.Context, r *report.Report, f interface{}) bool {
	if r == nil {
		return false
	}
	filter, ok := f.(*types.ReportFilter)
	if !ok || filter == nil {
		return true
	}
	if filter.ShopID != "" && r.ShopID != filter.ShopID {
		return false
	}
	if filter.Format != "" && r.Format != filter.Format {
		return false
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, r.Status) {
		return false
	}
	return true
}

func reportSortFn(i, j *report.Report) bool {
	return i.CreatedAt.Before(j.CreatedAt)
}

func (s *InMemoryReportStore) List(ctx context.Context, filter *types.ReportFilter) ([]*report.Report, error) {
	items, err := s.InMemoryStore.List(ctx, filter, reportFilterFn, reportSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*report.Report, len(items))
	for i, r := range items {
		out[i] = copyReport(r)
	}
	return out, nil
}

func (s *InMemoryReportStore) Count(ctx context.Context, filter *types.ReportFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, reportFilterFn)
}
