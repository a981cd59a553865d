package service

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// ReportService exposes the generated report catalog and re-delivery.
type ReportService interface {
	Get(ctx context.Context, id string) (*report.Report, error)
	List(ctx context.Context, filter *types.ReportFilter) ([]*report.Report, error)
	Count(ctx context.Context, filter *types.ReportFilter) (int, error)

	// Redeliver ships an already-generated artifact to the shop's current
	// destination again. Only the delivery stage runs; the artifact is
	// never regenerated.
	Redeliver(ctx context.Context, id string) (*report.Report, error)
}

type reportService struct {
	ServiceParams
}

func NewReportService(params ServiceParams) ReportService {
	return &reportService{ServiceParams: params}
}

func (s *reportService) Get(ctx context.Context, id string) (*report.Report, error) {
	return s.ReportRepo.Get(ctx, id)
}

func (s *reportService) List(ctx context.Context, filter *types.ReportFilter) ([]*report.Report, error) {
	if filter == nil {
		filter = &types.ReportFilter{}
	}
	if filter.ShopID == "" {
		if err := types.ValidateShopContext(ctx); err != nil {
			return nil, err
		}
		shopID := types.GetShopID(ctx)
		filter.ShopID = shopID
	}
	return s.ReportRepo.List(ctx, filter)
}

func (s *reportService) Count(ctx context.Context, filter *types.ReportFilter) (int, error) {
	if filter == nil {
		filter = &types.ReportFilter{}
	}
	if filter.ShopID == "" {
		if err := types.ValidateShopContext(ctx); err != nil {
			return 0, err
		}
		shopID := types.GetShopID(ctx)
		filter.ShopID = shopID
	}
	return s.ReportRepo.Count(ctx, filter)
}

func (s *reportService) Redeliver(ctx context.Context, id string) (*report.Report, error) {
	rep, err := s.ReportRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rep.Status.IsCompleted() {
		return nil, ierr.NewErrorf("report %s is not completed", id).
			WithHint("Only completed reports can be re-delivered").
			Mark(ierr.ErrInvalidOperation)
	}
	if rep.FilePath == "" {
		return nil, ierr.NewErrorf("report %s has no stored artifact", id).
			WithHint("The artifact file is missing").
			Mark(ierr.ErrInvalidOperation)
	}

	ftpCfg, err := s.FtpConfigRepo.GetByShop(ctx, rep.ShopID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("shop has no delivery destination").
				WithHint("Configure an FTP or SFTP destination first").
				Mark(ierr.ErrInvalidOperation)
		}
		return nil, err
	}

	content, err := s.Artifacts.Load(ctx, rep.FilePath)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the stored artifact").
			Mark(ierr.ErrSystem)
	}

	status, deliverErr := s.Delivery.Deliver(ctx, ftpCfg, rep.FileName, content)
	rep.DeliveryMethod = types.DeliveryMethodFTP
	rep.FtpDeliveryStatus = &status
	if deliverErr != nil {
		rep.ErrorMessage = deliverErr.Error()
	} else {
		rep.ErrorMessage = ""
	}
	rep.UpdatedAt = s.Clock.Now()

	if err := s.ReportRepo.Update(ctx, rep); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to persist delivery outcome").
			Mark(ierr.ErrDatabase)
	}

	if deliverErr != nil {
		return rep, ierr.WithError(deliverErr).
			WithHint("Re-delivery failed after retries").
			Mark(ierr.ErrDelivery)
	}

	s.Logger.Infow("re-delivered report",
		"report_id", rep.ID,
		"shop_id", rep.ShopID,
		"destination", ftpCfg.Redacted())
	return rep, nil
}
