package service

import (
	"context"
	"testing"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/artifact"
	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/render"
	"github.com/fiscalflow/fiscalflow/internal/testutil"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// stubDeliveryClient records deliveries and returns a configured outcome.
type stubDeliveryClient struct {
	status types.DeliveryStatus
	err    error
	calls  int
}

func (c *stubDeliveryClient) Deliver(_ context.Context, _ *ftpconfig.FtpConfig, _ string, _ []byte) (types.DeliveryStatus, error) {
	c.calls++
	return c.status, c.err
}

type ExecutorServiceSuite struct {
	testutil.BaseServiceTestSuite
	service    ExecutorService
	dispatcher DispatcherService
	params     ServiceParams
	source     *testutil.InMemoryDataSource
	delivery   *stubDeliveryClient
}

func TestExecutorService(t *testing.T) {
	suite.Run(t, new(ExecutorServiceSuite))
}

func (s *ExecutorServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.source = testutil.NewInMemoryDataSource()
	s.delivery = &stubDeliveryClient{status: types.DeliveryStatusSuccess}

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		Clock:             s.GetClock(),
		Cache:             cache.NewInMemoryCache(),
		Tx:                NoopTxRunner{},
		Registry:          render.NewRegistry(s.source, s.GetLogger()),
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
	s.service = NewExecutorService(s.params)
	s.dispatcher = NewDispatcherService(s.params)
}

func (s *ExecutorServiceSuite) seedFiscalConfig() {
	cfg := &fiscalconfig.FiscalConfiguration{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FISCAL_CONFIG),
		Code:            "de-gobd",
		Name:            "GoBD",
		Currency:        "EUR",
		Encoding:        "UTF-8",
		Separator:       ";",
		RequiredColumns: []string{"order_id", "date", "net_amount", "tax_amount", "gross_amount"},
		DefaultFormat:   types.ExportFormatCSV,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.params.FiscalConfigRepo.Create(s.GetContext(), cfg))
}

func (s *ExecutorServiceSuite) seedEntries() {
	// Inside the daily window ending at the task's due time.
	s.source.AddEntries("shop_test", render.Entry{
		OrderID:     "1001",
		Date:        time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC),
		Country:     "DE",
		Currency:    "EUR",
		NetAmount:   decimal.NewFromInt(100),
		TaxAmount:   decimal.NewFromInt(19),
		GrossAmount: decimal.NewFromInt(119),
		TaxRate:     decimal.NewFromFloat(0.19),
	})
}

// newClaimedTask creates a schedule plus a running task the way the
// dispatcher and a claim would.
func (s *ExecutorServiceSuite) newClaimedTask() (*scheduledtask.ScheduledTask, *task.Task) {
	now := s.GetClock().Now()
	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	st := &scheduledtask.ScheduledTask{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SCHEDULED_TASK),
		ShopID:        "shop_test",
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
		NextRun:       due.AddDate(0, 0, 1),
		Status:        types.ScheduledTaskStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.NoError(s.params.ScheduledTaskRepo.Create(s.GetContext(), st))

	started := now
	t := &task.Task{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TASK),
		ScheduledTaskID: st.ID,
		ShopID:          st.ShopID,
		Status:          types.TaskStatusRunning,
		ScheduledFor:    due,
		StartedAt:       &started,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.NoError(s.params.TaskRepo.Create(s.GetContext(), t))
	return st, t
}

func (s *ExecutorServiceSuite) TestSuccessfulRun() {
	s.seedFiscalConfig()
	s.seedEntries()
	st, t := s.newClaimedTask()

	s.NoError(s.service.Execute(s.GetContext(), t))

	done, err := s.params.TaskRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TaskStatusCompleted, done.Status)
	s.NotNil(done.CompletedAt)
	s.NotEmpty(done.ReportID)

	rep, err := s.params.ReportRepo.Get(s.GetContext(), done.ReportID)
	s.NoError(err)
	s.Equal(types.ReportStatusCompleted, rep.Status)
	s.Equal(types.ExportFormatCSV, rep.Format)
	s.NotEmpty(rep.FilePath)
	s.Positive(rep.FileSize)
	s.Equal(types.DeliveryMethodNone, rep.DeliveryMethod)
	s.Nil(rep.FtpDeliveryStatus)

	// LastRun records the due time that was served.
	updated, err := s.params.ScheduledTaskRepo.Get(s.GetContext(), st.ID)
	s.NoError(err)
	s.NotNil(updated.LastRun)
	s.True(updated.LastRun.Equal(t.ScheduledFor))
}

func (s *ExecutorServiceSuite) TestEmptyWindowCompletesWithEmptyData() {
	s.seedFiscalConfig()
	_, t := s.newClaimedTask()

	s.NoError(s.service.Execute(s.GetContext(), t))

	done, err := s.params.TaskRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TaskStatusCompleted, done.Status)

	rep, err := s.params.ReportRepo.Get(s.GetContext(), done.ReportID)
	s.NoError(err)
	s.Equal(types.ReportStatusCompletedEmptyData, rep.Status)
	// The artifact exists and is structurally valid even with no rows.
	content, err := s.params.Artifacts.Load(s.GetContext(), rep.FilePath)
	s.NoError(err)
	s.NotEmpty(content)
}

func (s *ExecutorServiceSuite) TestMissingFiscalConfigFailsTask() {
	st, t := s.newClaimedTask()

	err := s.service.Execute(s.GetContext(), t)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	done, getErr := s.params.TaskRepo.Get(s.GetContext(), t.ID)
	s.NoError(getErr)
	s.Equal(types.TaskStatusFailed, done.Status)
	s.NotEmpty(done.ErrorMessage)
	s.NotNil(done.CompletedAt)

	// A failed run never advances the schedule bookkeeping.
	unchanged, getErr := s.params.ScheduledTaskRepo.Get(s.GetContext(), st.ID)
	s.NoError(getErr)
	s.Nil(unchanged.LastRun)
}

func (s *ExecutorServiceSuite) TestDataSourceErrorFailsTaskAndReport() {
	s.seedFiscalConfig()
	s.source.SetError(ierr.NewError("upstream unavailable").Mark(ierr.ErrSystem))
	_, t := s.newClaimedTask()

	err := s.service.Execute(s.GetContext(), t)
	s.Error(err)

	done, getErr := s.params.TaskRepo.Get(s.GetContext(), t.ID)
	s.NoError(getErr)
	s.Equal(types.TaskStatusFailed, done.Status)

	rep, getErr := s.params.ReportRepo.Get(s.GetContext(), done.ReportID)
	s.NoError(getErr)
	s.Equal(types.ReportStatusError, rep.Status)
	s.NotEmpty(rep.ErrorMessage)
}

func (s *ExecutorServiceSuite) TestDeliverySuccess() {
	s.seedFiscalConfig()
	s.seedEntries()
	s.seedFtpConfig()
	_, t := s.newClaimedTask()

	s.NoError(s.service.Execute(s.GetContext(), t))
	s.Equal(1, s.delivery.calls)

	done, err := s.params.TaskRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	rep, err := s.params.ReportRepo.Get(s.GetContext(), done.ReportID)
	s.NoError(err)
	s.Equal(types.DeliveryMethodFTP, rep.DeliveryMethod)
	s.NotNil(rep.FtpDeliveryStatus)
	s.Equal(types.DeliveryStatusSuccess, *rep.FtpDeliveryStatus)
}

func (s *ExecutorServiceSuite) TestDeliveryFailureKeepsReportCompleted() {
	s.seedFiscalConfig()
	s.seedEntries()
	s.seedFtpConfig()
	s.delivery.status = types.DeliveryStatusFailed
	s.delivery.err = ierr.NewError("connection refused").Mark(ierr.ErrDelivery)
	_, t := s.newClaimedTask()

	// Delivery failure is not an execution failure.
	s.NoError(s.service.Execute(s.GetContext(), t))

	done, err := s.params.TaskRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TaskStatusCompleted, done.Status)

	rep, err := s.params.ReportRepo.Get(s.GetContext(), done.ReportID)
	s.NoError(err)
	s.Equal(types.ReportStatusCompleted, rep.Status)
	s.NotNil(rep.FtpDeliveryStatus)
	s.Equal(types.DeliveryStatusFailed, *rep.FtpDeliveryStatus)
	s.NotEmpty(rep.ErrorMessage)
}

func (s *ExecutorServiceSuite) TestClaimThenExecuteEndToEnd() {
	s.seedFiscalConfig()
	s.seedEntries()

	// Dispatch a due schedule, then claim and run its task.
	now := s.GetClock().Now()
	st := &scheduledtask.ScheduledTask{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SCHEDULED_TASK),
		ShopID:        "shop_test",
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
		NextRun:       time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Status:        types.ScheduledTaskStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.NoError(s.params.ScheduledTaskRepo.Create(s.GetContext(), st))

	created, err := s.dispatcher.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Len(created, 1)

	claimed, err := s.params.TaskRepo.ClaimNextPending(s.GetContext())
	s.NoError(err)
	s.NotNil(claimed)
	s.Equal(types.TaskStatusRunning, claimed.Status)

	// Nothing else is claimable while this one runs.
	second, err := s.params.TaskRepo.ClaimNextPending(s.GetContext())
	s.NoError(err)
	s.Nil(second)

	s.NoError(s.service.Execute(s.GetContext(), claimed))

	done, err := s.params.TaskRepo.Get(s.GetContext(), claimed.ID)
	s.NoError(err)
	s.Equal(types.TaskStatusCompleted, done.Status)
}

func (s *ExecutorServiceSuite) seedFtpConfig() {
	cfg := &ftpconfig.FtpConfig{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FTP_CONFIG),
		Host:        "ftp.example.com",
		Port:        21,
		Protocol:    types.DeliveryProtocolFTP,
		Username:    "merchant",
		Password:    "secret",
		Directory:   "/exports",
		PassiveMode: true,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.params.FtpConfigRepo.Create(s.GetContext(), cfg))
}

// failingFtpConfigStore reports a storage error on every destination lookup.
type failingFtpConfigStore struct {
	ftpconfig.Repository
}

func (s *failingFtpConfigStore) GetByShop(_ context.Context, shopID string) (*ftpconfig.FtpConfig, error) {
	return nil, ierr.NewErrorf("destination lookup failed for shop %s", shopID).
		Mark(ierr.ErrDatabase)
}

func (s *ExecutorServiceSuite) TestDestinationLookupFailureRecordsFailedDelivery() {
	s.seedFiscalConfig()
	s.seedEntries()
	s.params.FtpConfigRepo = &failingFtpConfigStore{Repository: s.params.FtpConfigRepo}
	s.service = NewExecutorService(s.params)
	_, t := s.newClaimedTask()

	s.NoError(s.service.Execute(s.GetContext(), t))

	done, err := s.params.TaskRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TaskStatusCompleted, done.Status)

	// The artifact exists, so the report completes, but the report row must
	// show the delivery never happened.
	rep, err := s.params.ReportRepo.Get(s.GetContext(), done.ReportID)
	s.NoError(err)
	s.Equal(types.ReportStatusCompleted, rep.Status)
	s.Equal(types.DeliveryMethodFTP, rep.DeliveryMethod)
	s.Require().NotNil(rep.FtpDeliveryStatus)
	s.Equal(types.DeliveryStatusFailed, *rep.FtpDeliveryStatus)
	s.NotEmpty(rep.ErrorMessage)
	s.Zero(s.delivery.calls)
}
