package report

import (
	"strings"
	"testing"

	"driftwatch/domain/core"
	"driftwatch/domain/drift"
	"driftwatch/domain/metrics"
	"driftwatch/ports"
)

func sampleRun() *ports.MonitoringRun {
	return &ports.MonitoringRun{
		ID: "run-1",
		DatasetDrift: drift.DatasetDriftResult{
			DatasetDriftDetected: true,
			DatasetDriftScore:    0.75,
			NFeaturesDrifted:     3,
			FeatureResults: []drift.FeatureDriftResult{
				{FeatureName: "sepal_length", StatTestName: "kolmogorov_smirnov", DriftScore: 0.001, Threshold: 0.05, DriftDetected: true},
				{FeatureName: "sepal_width", Undetermined: true, Error: "current sample is empty"},
			},
		},
		TestResults: drift.TestSuiteSummary{
			TotalTests:  2,
			PassedTests: 1,
			FailedTests: 1,
			SuccessRate: 0.5,
			Details: []drift.TestDetail{
				{Name: "drift per column sepal_length", Passed: false, Description: "kolmogorov_smirnov score 0.0010 against threshold 0.0500"},
				{Name: "share of drifted columns", Passed: true, Description: "1 of 1 determined columns drifted"},
			},
		},
		Summary: drift.MonitoringSummary{
			OverallStatus:   drift.StatusAlert,
			DriftSeverity:   drift.SeverityHigh,
			Recommendations: []string{"Consider retraining the model with recent data"},
		},
		CreatedAt: core.Now(),
	}
}

func TestMonitoringMarkdown_ContainsKeySections(t *testing.T) {
	md := NewRenderer().MonitoringMarkdown(sampleRun())

	for _, want := range []string{
		"# Drift Monitoring Report",
		"**Severity:** high",
		"## Data Drift",
		"| sepal_length | kolmogorov_smirnov |",
		"undetermined",
		"## Drift Tests",
		"[FAIL] drift per column sepal_length",
		"## Recommendations",
		"Consider retraining the model with recent data",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q\n%s", want, md)
		}
	}
}

func TestEvaluationMarkdown_ShowsDecision(t *testing.T) {
	renderer := NewRenderer()
	report := &ports.EvaluationReport{
		ID:          "rep-1",
		DeployModel: false,
		Metrics:     metrics.MetricSet{Accuracy: 0.74, F1: 0.73},
		Gate: metrics.GateResult{
			AccuracyValue: 0.74, AccuracyThreshold: 0.8,
			F1Value: 0.73, F1Threshold: 0.8,
		},
		CreatedAt: core.Now(),
	}

	md := renderer.EvaluationMarkdown(report)
	if !strings.Contains(md, "DO NOT DEPLOY") {
		t.Errorf("Expected rejection decision in report:\n%s", md)
	}
	if !strings.Contains(md, "fail") {
		t.Errorf("Expected failed checks in report:\n%s", md)
	}

	report.DeployModel = true
	if md := renderer.EvaluationMarkdown(report); !strings.Contains(md, "**Decision:** DEPLOY") {
		t.Errorf("Expected deploy decision in report:\n%s", md)
	}
}

func TestToHTML_RendersHeadingsAndTables(t *testing.T) {
	html := string(NewRenderer().ToHTML("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if !strings.Contains(html, "<h1") {
		t.Errorf("Expected heading tag in HTML: %s", html)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("Expected table tag in HTML: %s", html)
	}
}
