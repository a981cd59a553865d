package service

import (
	"context"
	"testing"

	"github.com/fiscalflow/fiscalflow/internal/artifact"
	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/testutil"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/stretchr/testify/suite"
)

type ReportServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  ReportService
	params   ServiceParams
	delivery *stubDeliveryClient
}

func TestReportService(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.delivery = &stubDeliveryClient{status: types.DeliveryStatusSuccess}

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		Clock:             s.GetClock(),
		Cache:             cache.NewInMemoryCache(),
		Tx:                NoopTxRunner{},
		Delivery:          s.delivery,
		Artifacts:         artifact.NewLocalStore(s.T().TempDir()),
		ShopRepo:          stores.ShopRepo,
		FiscalConfigRepo:  stores.FiscalConfigRepo,
		SettingsRepo:      stores.SettingsRepo,
		FtpConfigRepo:     stores.FtpConfigRepo,
		ScheduledTaskRepo: stores.ScheduledTaskRepo,
		TaskRepo:          stores.TaskRepo,
		ReportRepo:        stores.ReportRepo,
	}
	s.service = NewReportService(s.params)
}

func (s *ReportServiceSuite) newCompletedReport(ctx context.Context) *report.Report {
	shopID := types.GetShopID(ctx)
	s.NotEmpty(shopID)

	content := []byte("order_id;net_amount\n1001;100.00\n")
	path, err := s.params.Artifacts.Save(ctx, shopID, "tax-report_20240101-20240102_abc123.csv", content)
	s.NoError(err)

	now := s.GetClock().Now()
	rep := &report.Report{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REPORT),
		ShopID:         shopID,
		Type:           "tax-report",
		DataType:       "orders",
		Status:         types.ReportStatusCompleted,
		Format:         types.ExportFormatCSV,
		FileName:       "tax-report_20240101-20240102_abc123.csv",
		FilePath:       path,
		FileSize:       int64(len(content)),
		DeliveryMethod: types.DeliveryMethodNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.NoError(s.params.ReportRepo.Create(ctx, rep))
	return rep
}

func (s *ReportServiceSuite) seedFtpConfig() {
	cfg := &ftpconfig.FtpConfig{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FTP_CONFIG),
		Host:      "sftp.example.com",
		Port:      22,
		Protocol:  types.DeliveryProtocolSFTP,
		Username:  "merchant",
		Password:  "secret",
		Directory: "/exports",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.params.FtpConfigRepo.Create(s.GetContext(), cfg))
}

func (s *ReportServiceSuite) TestListScopedToShop() {
	s.newCompletedReport(s.GetContext())
	s.newCompletedReport(types.SetShopID(context.Background(), "shop_other"))

	list, err := s.service.List(s.GetContext(), nil)
	s.NoError(err)
	s.Len(list, 1)
	s.Equal("shop_test", list[0].ShopID)

	count, err := s.service.Count(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *ReportServiceSuite) TestListFiltersByStatus() {
	rep := s.newCompletedReport(s.GetContext())
	rep.Status = types.ReportStatusError
	rep.ErrorMessage = "boom"
	s.NoError(s.params.ReportRepo.Update(s.GetContext(), rep))
	s.newCompletedReport(s.GetContext())

	list, err := s.service.List(s.GetContext(), &types.ReportFilter{
		Statuses: []types.ReportStatus{types.ReportStatusCompleted},
	})
	s.NoError(err)
	s.Len(list, 1)
	s.Equal(types.ReportStatusCompleted, list[0].Status)
}

func (s *ReportServiceSuite) TestRedeliverSuccess() {
	s.seedFtpConfig()
	rep := s.newCompletedReport(s.GetContext())

	redelivered, err := s.service.Redeliver(s.GetContext(), rep.ID)
	s.NoError(err)
	s.Equal(1, s.delivery.calls)
	s.Equal(types.DeliveryMethodFTP, redelivered.DeliveryMethod)
	s.NotNil(redelivered.FtpDeliveryStatus)
	s.Equal(types.DeliveryStatusSuccess, *redelivered.FtpDeliveryStatus)
	// The report row itself stays completed.
	s.Equal(types.ReportStatusCompleted, redelivered.Status)
}

func (s *ReportServiceSuite) TestRedeliverFailureRecordsStatus() {
	s.seedFtpConfig()
	s.delivery.status = types.DeliveryStatusFailed
	s.delivery.err = ierr.NewError("550 permission denied").Mark(ierr.ErrDelivery)
	rep := s.newCompletedReport(s.GetContext())

	_, err := s.service.Redeliver(s.GetContext(), rep.ID)
	s.Error(err)
	s.True(ierr.IsDelivery(err))

	stored, getErr := s.params.ReportRepo.Get(s.GetContext(), rep.ID)
	s.NoError(getErr)
	s.Equal(types.ReportStatusCompleted, stored.Status)
	s.NotNil(stored.FtpDeliveryStatus)
	s.Equal(types.DeliveryStatusFailed, *stored.FtpDeliveryStatus)
}

func (s *ReportServiceSuite) TestRedeliverRejectsIncompleteReport() {
	now := s.GetClock().Now()
	rep := &report.Report{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REPORT),
		ShopID:         "shop_test",
		Type:           "tax-report",
		DataType:       "orders",
		Status:         types.ReportStatusProcessing,
		Format:         types.ExportFormatCSV,
		DeliveryMethod: types.DeliveryMethodNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.NoError(s.params.ReportRepo.Create(s.GetContext(), rep))

	_, err := s.service.Redeliver(s.GetContext(), rep.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Zero(s.delivery.calls)
}

func (s *ReportServiceSuite) TestRedeliverWithoutDestination() {
	rep := s.newCompletedReport(s.GetContext())

	_, err := s.service.Redeliver(s.GetContext(), rep.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Zero(s.delivery.calls)
}
