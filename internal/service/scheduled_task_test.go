package service

import (
	"testing"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/testutil"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ScheduledTaskServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ScheduledTaskService
	params  ServiceParams
}

func TestScheduledTaskService(t *testing.T) {
	suite.Run(t, new(ScheduledTaskServiceSuite))
}

func (s *ScheduledTaskServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		Clock:             s.GetClock(),
		Cache:             cache.NewInMemoryCache(),
		Tx:                NoopTxRunner{},
		ShopRepo:          stores.ShopRepo,
		FiscalConfigRepo:  stores.FiscalConfigRepo,
		SettingsRepo:      stores.SettingsRepo,
		FtpConfigRepo:     stores.FtpConfigRepo,
		ScheduledTaskRepo: stores.ScheduledTaskRepo,
		TaskRepo:          stores.TaskRepo,
		ReportRepo:        stores.ReportRepo,
	}
	s.service = NewScheduledTaskService(s.params)
}

func (s *ScheduledTaskServiceSuite) TestCreateComputesInitialNextRun() {
	st, err := s.service.Create(s.GetContext(), CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.NoError(err)
	s.Equal("shop_test", st.ShopID)
	s.Equal(types.ScheduledTaskStatusActive, st.Status)
	// Clock is frozen at 12:00, so today's 09:00 is past: first run is
	// tomorrow at 09:00.
	s.True(st.NextRun.Equal(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)))
}

func (s *ScheduledTaskServiceSuite) TestCreateUsesShopTimezone() {
	gs := &settings.GeneralSettings{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GENERAL_SETTINGS),
		Timezone:  "Europe/Berlin",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.params.SettingsRepo.Create(s.GetContext(), gs))

	st, err := s.service.Create(s.GetContext(), CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "14:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.NoError(err)
	// 14:00 Berlin in winter is 13:00 UTC, still ahead of the frozen noon.
	s.True(st.NextRun.Equal(time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)))
}

func (s *ScheduledTaskServiceSuite) TestCreateRejectsInvalidRule() {
	_, err := s.service.Create(s.GetContext(), CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyMonthly,
		ExecutionDay:  32,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ScheduledTaskServiceSuite) TestUpdateRecomputesNextRun() {
	st, err := s.service.Create(s.GetContext(), CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.NoError(err)

	updated, err := s.service.Update(s.GetContext(), st.ID, UpdateScheduledTaskRequest{
		ExecutionTime: lo.ToPtr(types.ExecutionTime("15:00")),
	})
	s.NoError(err)
	s.True(updated.NextRun.Equal(time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)))
}

func (s *ScheduledTaskServiceSuite) TestPauseAndResume() {
	st, err := s.service.Create(s.GetContext(), CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.NoError(err)

	paused, err := s.service.Pause(s.GetContext(), st.ID)
	s.NoError(err)
	s.Equal(types.ScheduledTaskStatusPaused, paused.Status)

	// Two days pass while paused.
	s.GetClock().Advance(48 * time.Hour)

	resumed, err := s.service.Resume(s.GetContext(), st.ID)
	s.NoError(err)
	s.Equal(types.ScheduledTaskStatusActive, resumed.Status)
	// Missed occurrences are not dispatched retroactively.
	s.True(resumed.NextRun.After(s.GetClock().Now()))
}

func (s *ScheduledTaskServiceSuite) TestListScopedToShop() {
	_, err := s.service.Create(s.GetContext(), CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.NoError(err)

	otherCtx := types.SetShopID(s.GetContext(), "shop_other")
	_, err = s.service.Create(otherCtx, CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "10:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.NoError(err)

	list, err := s.service.List(s.GetContext(), nil)
	s.NoError(err)
	s.Len(list, 1)
	s.Equal("shop_test", list[0].ShopID)
}

func (s *ScheduledTaskServiceSuite) TestDelete() {
	st, err := s.service.Create(s.GetContext(), CreateScheduledTaskRequest{
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
	})
	s.NoError(err)

	s.NoError(s.service.Delete(s.GetContext(), st.ID))

	_, err = s.service.Get(s.GetContext(), st.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
