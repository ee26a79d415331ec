package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"driftwatch/domain/drift"
	"driftwatch/internal/testkit"
	"driftwatch/ports"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SaveEvaluation(ctx context.Context, report *ports.EvaluationReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) SaveMonitoringRun(ctx context.Context, run *ports.MonitoringRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockReportRepository) LatestMonitoringRun(ctx context.Context) (*ports.MonitoringRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.MonitoringRun), args.Error(1)
}

func TestMonitoringService_StableDataStaysQuiet(t *testing.T) {
	service, err := NewMonitoringService(drift.DefaultPolicy(), nil, nil)
	require.NoError(t, err)

	run, err := service.Run(context.Background(), MonitorInput{
		Reference:       testkit.GenerateTable(150, 1),
		Current:         testkit.GenerateTable(150, 2),
		ExcludedColumns: []string{"species"},
	})
	require.NoError(t, err)

	assert.False(t, run.DatasetDrift.DatasetDriftDetected)
	assert.Equal(t, drift.StatusOK, run.Summary.OverallStatus)
	assert.Equal(t, drift.SeverityNone, run.Summary.DriftSeverity)
	assert.NotEmpty(t, string(run.ID))
}

func TestMonitoringService_DriftScenarioAlerts(t *testing.T) {
	service, err := NewMonitoringService(drift.DefaultPolicy(), nil, nil)
	require.NoError(t, err)

	// Heavy shift on two of four features
	run, err := service.Run(context.Background(), MonitorInput{
		Reference:       testkit.GenerateTable(150, 1),
		Current:         testkit.GenerateDriftedTable(150, 2, 3.0),
		ExcludedColumns: []string{"species"},
	})
	require.NoError(t, err)

	assert.True(t, run.DatasetDrift.NFeaturesDrifted >= 2,
		"shifted and scaled features should drift, got %d", run.DatasetDrift.NFeaturesDrifted)
	assert.NotEmpty(t, run.TestResults.Details)
	assert.Greater(t, run.TestResults.FailedTests, 0)
}

func TestMonitoringService_WithPredictionDrift(t *testing.T) {
	service, err := NewMonitoringService(drift.DefaultPolicy(), nil, nil)
	require.NoError(t, err)

	current := make([]int, 120)
	reference := make([]int, 120)
	for i := range current {
		current[i] = 0 // collapsed to a single class
		reference[i] = i % 3
	}

	run, err := service.Run(context.Background(), MonitorInput{
		Reference:            testkit.GenerateTable(150, 1),
		Current:              testkit.GenerateTable(150, 2),
		ExcludedColumns:      []string{"species"},
		CurrentPredictions:   current,
		ReferencePredictions: reference,
		PredictionClasses:    []int{0, 1, 2},
	})
	require.NoError(t, err)

	require.NotNil(t, run.Summary.PredictionDrift)
	assert.True(t, run.Summary.PredictionDrift.Detected)
	assert.Contains(t, run.Summary.Recommendations,
		"Prediction distribution shifted - monitor model performance")
}

func TestMonitoringService_PersistsRun(t *testing.T) {
	repo := new(MockReportRepository)
	repo.On("SaveMonitoringRun", mock.Anything, mock.Anything).Return(nil)

	service, err := NewMonitoringService(drift.DefaultPolicy(), repo, nil)
	require.NoError(t, err)

	_, err = service.Run(context.Background(), MonitorInput{
		Reference:       testkit.GenerateTable(60, 1),
		Current:         testkit.GenerateTable(60, 2),
		ExcludedColumns: []string{"species"},
	})
	require.NoError(t, err)

	repo.AssertCalled(t, "SaveMonitoringRun", mock.Anything, mock.Anything)
}

func TestMonitoringService_LatestWithoutRepo(t *testing.T) {
	service, err := NewMonitoringService(drift.DefaultPolicy(), nil, nil)
	require.NoError(t, err)

	_, err = service.Latest(context.Background())
	assert.Error(t, err)
}

func TestMonitoringService_LatestDelegatesToRepo(t *testing.T) {
	want := &ports.MonitoringRun{ID: "run-1"}
	repo := new(MockReportRepository)
	repo.On("LatestMonitoringRun", mock.Anything).Return(want, nil)

	service, err := NewMonitoringService(drift.DefaultPolicy(), repo, nil)
	require.NoError(t, err)

	got, err := service.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
