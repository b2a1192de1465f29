package generate_excel

import (
	"context"
	"testing"
	"time"

	"capacity-backend/internal/service/schedule"
	"capacity-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func ms(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestBuildMatrix_SplitsAcrossMachines(t *testing.T) {
	machines := []storage.Machine{
		{ID: 1, Name: "Inserter A"},
		{ID: 2, Name: "Inserter B"},
	}
	jobs := []storage.ScheduledJob{
		{
			ID:          10,
			MachinesID:  []int64{1, 2},
			Quantity:    1400,
			StartDate:   ms(2026, 1, 5),
			DueDate:     ms(2026, 1, 18),
			WeeklySplit: []int{700, 700},
		},
		{
			// Unknown machine, ignored.
			ID:          11,
			MachinesID:  []int64{99},
			StartDate:   ms(2026, 1, 5),
			DueDate:     ms(2026, 1, 11),
			WeeklySplit: []int{500},
		},
	}
	periods, err := schedule.CalculatePeriods(ms(2026, 1, 5), ms(2026, 1, 18), storage.GranularityWeekly)
	assert.NoError(t, err)

	cells, err := buildMatrix(machines, jobs, periods)
	assert.NoError(t, err)
	assert.Equal(t, []int{350, 350}, cells[1])
	assert.Equal(t, []int{350, 350}, cells[2])
	_, hasUnknown := cells[99]
	assert.False(t, hasUnknown)
}

type MockReportStorage struct {
	mock.Mock
}

func (m *MockReportStorage) GetMachines(ctx context.Context, processType string, facilityID *int64) ([]storage.Machine, error) {
	args := m.Called(ctx, processType, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Machine), args.Error(1)
}

func (m *MockReportStorage) GetJobsInWindow(ctx context.Context, startMs, endMs int64) ([]storage.ScheduledJob, error) {
	args := m.Called(ctx, startMs, endMs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ScheduledJob), args.Error(1)
}

func TestGenerateExcel_ProducesWorkbook(t *testing.T) {
	mockStorage := new(MockReportStorage)
	mockStorage.On("GetMachines", mock.Anything, "insert", (*int64)(nil)).Return([]storage.Machine{
		{ID: 1, Name: "Inserter A", ProcessTypeKey: "insert"},
	}, nil)
	mockStorage.On("GetJobsInWindow", mock.Anything, ms(2026, 1, 5), ms(2026, 1, 18)).Return([]storage.ScheduledJob{
		{ID: 10, MachinesID: []int64{1}, StartDate: ms(2026, 1, 5), DueDate: ms(2026, 1, 18), WeeklySplit: []int{700, 700}},
	}, nil)

	service := NewCapacityReportService(mockStorage)

	out, err := service.GenerateExcel(context.Background(), ReportFilter{
		From:        ms(2026, 1, 5),
		To:          ms(2026, 1, 18),
		ProcessType: "insert",
		Granularity: storage.GranularityWeekly,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
	// xlsx files are zip archives.
	assert.Equal(t, byte('P'), out[0])
	assert.Equal(t, byte('K'), out[1])
}
