package service

import (
	"testing"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	"github.com/fiscalflow/fiscalflow/internal/testutil"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/stretchr/testify/suite"
)

type DispatcherServiceSuite struct {
	testutil.BaseServiceTestSuite
	service DispatcherService
	params  ServiceParams
}

func TestDispatcherService(t *testing.T) {
	suite.Run(t, new(DispatcherServiceSuite))
}

func (s *DispatcherServiceSuite) SetupTest() {
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
	s.service = NewDispatcherService(s.params)
}

func (s *DispatcherServiceSuite) newSchedule(nextRun time.Time) *scheduledtask.ScheduledTask {
	st := &scheduledtask.ScheduledTask{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SCHEDULED_TASK),
		ShopID:        "shop_test",
		Frequency:     types.ScheduleFrequencyDaily,
		ExecutionTime: "09:00",
		ReportType:    "tax-report",
		DataType:      "orders",
		NextRun:       nextRun,
		Status:        types.ScheduledTaskStatusActive,
		CreatedAt:     s.GetClock().Now(),
		UpdatedAt:     s.GetClock().Now(),
	}
	s.NoError(s.params.ScheduledTaskRepo.Create(s.GetContext(), st))
	return st
}

func (s *DispatcherServiceSuite) TestDispatchesDueSchedule() {
	now := s.GetClock().Now()
	st := s.newSchedule(now.Add(-time.Hour))

	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Len(created, 1)

	t, err := s.params.TaskRepo.Get(s.GetContext(), created[0])
	s.NoError(err)
	s.Equal(types.TaskStatusPending, t.Status)
	s.Equal(st.ID, t.ScheduledTaskID)
	s.Equal("shop_test", t.ShopID)
	s.True(t.ScheduledFor.Equal(st.NextRun))
}

func (s *DispatcherServiceSuite) TestSkipsFutureSchedule() {
	now := s.GetClock().Now()
	s.newSchedule(now.Add(time.Hour))

	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Empty(created)
}

func (s *DispatcherServiceSuite) TestSkipsPausedSchedule() {
	now := s.GetClock().Now()
	st := s.newSchedule(now.Add(-time.Hour))
	st.Status = types.ScheduledTaskStatusPaused
	s.NoError(s.params.ScheduledTaskRepo.Update(s.GetContext(), st))

	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Empty(created)
}

func (s *DispatcherServiceSuite) TestSecondPollIsIdempotent() {
	now := s.GetClock().Now()
	st := s.newSchedule(now.Add(-time.Hour))

	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Len(created, 1)

	// NextRun has advanced past now, so a second poll finds nothing due.
	created, err = s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Empty(created)

	updated, err := s.params.ScheduledTaskRepo.Get(s.GetContext(), st.ID)
	s.NoError(err)
	s.True(updated.NextRun.After(now))
}

func (s *DispatcherServiceSuite) TestSkipsScheduleWithInFlightTask() {
	now := s.GetClock().Now()
	st := s.newSchedule(now.Add(-time.Hour))

	running := &task.Task{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TASK),
		ScheduledTaskID: st.ID,
		ShopID:          st.ShopID,
		Status:          types.TaskStatusRunning,
		ScheduledFor:    now.Add(-25 * time.Hour),
		CreatedAt:       now.Add(-25 * time.Hour),
		UpdatedAt:       now.Add(-25 * time.Hour),
	}
	s.NoError(s.params.TaskRepo.Create(s.GetContext(), running))

	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Empty(created)

	// NextRun stays put so the occurrence is retried once the running task
	// finishes.
	unchanged, err := s.params.ScheduledTaskRepo.Get(s.GetContext(), st.ID)
	s.NoError(err)
	s.True(unchanged.NextRun.Equal(st.NextRun))
}

func (s *DispatcherServiceSuite) TestAdvancesFromDueTimeNotWallClock() {
	// The schedule was due yesterday at 09:00 and the dispatcher is late.
	due := time.Date(2023, 12, 31, 9, 0, 0, 0, time.UTC)
	st := s.newSchedule(due)

	now := s.GetClock().Now() // 2024-01-01 12:00 UTC
	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Len(created, 1)

	updated, err := s.params.ScheduledTaskRepo.Get(s.GetContext(), st.ID)
	s.NoError(err)
	// Advanced from the due time: the next occurrence is Jan 1 09:00, even
	// though it is already past at dispatch time. No occurrence is skipped.
	s.True(updated.NextRun.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))
}

func (s *DispatcherServiceSuite) TestUsesShopTimezoneForNextRun() {
	gs := &settings.GeneralSettings{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GENERAL_SETTINGS),
		Timezone:  "Europe/Paris",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.params.SettingsRepo.Create(s.GetContext(), gs))

	now := s.GetClock().Now()
	st := s.newSchedule(now.Add(-time.Hour))

	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Len(created, 1)

	updated, err := s.params.ScheduledTaskRepo.Get(s.GetContext(), st.ID)
	s.NoError(err)
	// 09:00 Paris in winter is 08:00 UTC.
	s.Equal(8, updated.NextRun.UTC().Hour())
}

func (s *DispatcherServiceSuite) TestPerScheduleFailureDoesNotBlockSiblings() {
	now := s.GetClock().Now()
	broken := s.newSchedule(now.Add(-time.Hour))
	broken.ExecutionTime = "not-a-time"
	s.NoError(s.params.ScheduledTaskRepo.Update(s.GetContext(), broken))
	healthy := s.newSchedule(now.Add(-time.Hour))

	created, err := s.service.PollAndDispatch(s.GetContext(), now)
	s.NoError(err)
	s.Len(created, 1)

	t, err := s.params.TaskRepo.Get(s.GetContext(), created[0])
	s.NoError(err)
	s.Equal(healthy.ID, t.ScheduledTaskID)
}
