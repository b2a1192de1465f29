package match

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"capacity-backend/internal/service/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) MatchJob(ctx context.Context, req matching.MatchRequest) ([]matching.MachineMatch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.MachineMatch), args.Error(1)
}

func (m *MockMatchService) BestMachine(ctx context.Context, req matching.MatchRequest) (*matching.MachineMatch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matching.MachineMatch), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMatchMachines_Success(t *testing.T) {
	mockService := new(MockMatchService)
	mockService.On("MatchJob", mock.Anything, mock.Anything).Return([]matching.MachineMatch{
		{MachineID: 2, MachineName: "Inserter B", CanHandle: true, Score: 100},
		{MachineID: 1, MachineName: "Inserter A", CanHandle: false, Score: 50},
	}, nil)

	body := `{"process_type":"insert","quantity":5000,"start_date":0,"due_date":86400000,"parameters":{"paper_size":"10x13"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/machines/match", strings.NewReader(body))
	rec := httptest.NewRecorder()

	MatchMachines(discardLogger(), mockService)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var matches []matching.MachineMatch
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	assert.Len(t, matches, 2)
	assert.True(t, matches[0].CanHandle)
	mockService.AssertExpectations(t)
}

func TestMatchMachines_MissingProcessType(t *testing.T) {
	mockService := new(MockMatchService)

	req := httptest.NewRequest(http.MethodPost, "/api/machines/match", strings.NewReader(`{"quantity":1}`))
	rec := httptest.NewRecorder()

	MatchMachines(discardLogger(), mockService)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "MatchJob")
}

func TestMatchMachines_InvalidJSON(t *testing.T) {
	mockService := new(MockMatchService)

	req := httptest.NewRequest(http.MethodPost, "/api/machines/match", strings.NewReader(`{garbage`))
	rec := httptest.NewRecorder()

	MatchMachines(discardLogger(), mockService)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBestMachine_NotFound(t *testing.T) {
	mockService := new(MockMatchService)
	mockService.On("BestMachine", mock.Anything, mock.Anything).Return(nil, nil)

	body := `{"process_type":"insert","parameters":{"paper_size":"10x13"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/machines/match/best", strings.NewReader(body))
	rec := httptest.NewRecorder()

	BestMachine(discardLogger(), mockService)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
