package schedule

import (
	"context"
	"testing"

	"capacity-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockScheduleStorage struct {
	mock.Mock
}

func (m *MockScheduleStorage) GetJob(ctx context.Context, id int64) (*storage.ScheduledJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ScheduledJob), args.Error(1)
}

func (m *MockScheduleStorage) UpdateJobSchedule(ctx context.Context, id int64, weeklySplit []int, lockedWeeks []bool) error {
	args := m.Called(ctx, id, weeklySplit, lockedWeeks)
	return args.Error(0)
}

func testJob() *storage.ScheduledJob {
	return &storage.ScheduledJob{
		ID:          7,
		OrderNum:    "PM-1041",
		Quantity:    300,
		StartDate:   ms(2026, 1, 5),
		DueDate:     ms(2026, 1, 25),
		WeeklySplit: []int{100, 100, 100},
		LockedWeeks: []bool{false, false, false},
	}
}

func TestEditPeriod_WeeklyEditPersistsLocks(t *testing.T) {
	mockStorage := new(MockScheduleStorage)
	mockStorage.On("GetJob", mock.Anything, int64(7)).Return(testJob(), nil)
	mockStorage.On("UpdateJobSchedule", mock.Anything, int64(7), []int{150, 75, 75}, []bool{true, false, false}).Return(nil)

	service := NewService(mockStorage)

	periods, err := service.EditPeriod(context.Background(), 7, storage.GranularityWeekly, 0, 150, false)
	assert.NoError(t, err)
	assert.Equal(t, 150, periods[0].Quantity)
	assert.True(t, periods[0].IsLocked)
	assert.Equal(t, 75, periods[1].Quantity)
	mockStorage.AssertExpectations(t)
}

func TestEditPeriod_NonWeeklyViewDropsLocksOnSave(t *testing.T) {
	mockStorage := new(MockScheduleStorage)
	mockStorage.On("GetJob", mock.Anything, int64(7)).Return(testJob(), nil)
	mockStorage.On("UpdateJobSchedule", mock.Anything, int64(7), mock.Anything, []bool{false, false, false}).Return(nil)

	service := NewService(mockStorage)

	_, err := service.EditPeriod(context.Background(), 7, storage.GranularityDaily, 0, 50, false)
	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
}

func TestPeriodsForJob(t *testing.T) {
	mockStorage := new(MockScheduleStorage)
	mockStorage.On("GetJob", mock.Anything, int64(7)).Return(testJob(), nil)

	service := NewService(mockStorage)

	periods, err := service.PeriodsForJob(context.Background(), 7, storage.GranularityWeekly)
	assert.NoError(t, err)
	assert.Len(t, periods, 3)
	assert.Equal(t, 100, periods[0].Quantity)
}

func TestResetJob(t *testing.T) {
	mockStorage := new(MockScheduleStorage)
	job := testJob()
	job.Quantity = 301
	job.LockedWeeks = []bool{true, true, true}
	mockStorage.On("GetJob", mock.Anything, int64(7)).Return(job, nil)
	mockStorage.On("UpdateJobSchedule", mock.Anything, int64(7), []int{101, 100, 100}, []bool{false, false, false}).Return(nil)

	service := NewService(mockStorage)

	periods, err := service.ResetJob(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, []int{101, 100, 100}, quantities(periods))
	mockStorage.AssertExpectations(t)
}
