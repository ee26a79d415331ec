package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"driftwatch/ports"
)

// Renderer produces human-readable monitoring and evaluation reports.
// Reports are assembled as markdown and optionally rendered to HTML for
// the dashboard endpoints.
type Renderer struct{}

// NewRenderer creates a report renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// MonitoringMarkdown renders a monitoring run as a markdown document
func (r *Renderer) MonitoringMarkdown(run *ports.MonitoringRun) string {
	var b strings.Builder
	summary := run.Summary

	fmt.Fprintf(&b, "# Drift Monitoring Report\n\n")
	fmt.Fprintf(&b, "Run `%s` at %s\n\n", run.ID, run.CreatedAt.String())
	fmt.Fprintf(&b, "**Status:** %s  \n", summary.OverallStatus)
	fmt.Fprintf(&b, "**Severity:** %s\n\n", summary.DriftSeverity)

	fmt.Fprintf(&b, "## Data Drift\n\n")
	fmt.Fprintf(&b, "- Dataset drift detected: %t\n", run.DatasetDrift.DatasetDriftDetected)
	fmt.Fprintf(&b, "- Drift score: %.3f\n", run.DatasetDrift.DatasetDriftScore)
	fmt.Fprintf(&b, "- Features drifted: %d of %d\n",
		run.DatasetDrift.NFeaturesDrifted, len(run.DatasetDrift.FeatureResults))
	if run.DatasetDrift.NFeaturesUndetermined > 0 {
		fmt.Fprintf(&b, "- Features undetermined: %d\n", run.DatasetDrift.NFeaturesUndetermined)
	}
	b.WriteString("\n")

	b.WriteString("| Feature | Test | Score | Threshold | Drift |\n")
	b.WriteString("|---------|------|-------|-----------|-------|\n")
	for _, f := range run.DatasetDrift.FeatureResults {
		status := fmt.Sprintf("%t", f.DriftDetected)
		if f.Undetermined {
			status = "undetermined"
		}
		fmt.Fprintf(&b, "| %s | %s | %.4f | %.4f | %s |\n",
			f.FeatureName, f.StatTestName, f.DriftScore, f.Threshold, status)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Drift Tests\n\n")
	fmt.Fprintf(&b, "- Passed: %d of %d (%.0f%%)\n\n",
		run.TestResults.PassedTests, run.TestResults.TotalTests, run.TestResults.SuccessRate*100)
	for _, d := range run.TestResults.Details {
		marker := "PASS"
		if !d.Passed {
			marker = "FAIL"
		}
		fmt.Fprintf(&b, "- [%s] %s: %s\n", marker, d.Name, d.Description)
	}
	b.WriteString("\n")

	if summary.PredictionDrift != nil {
		fmt.Fprintf(&b, "## Prediction Drift\n\n")
		fmt.Fprintf(&b, "- Detected: %t\n", summary.PredictionDrift.Detected)
		fmt.Fprintf(&b, "- KL divergence: %.4f\n\n", summary.PredictionDrift.KLDivergence)
	}

	if len(summary.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n\n")
		for _, rec := range summary.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// EvaluationMarkdown renders an evaluation report as a markdown document
func (r *Renderer) EvaluationMarkdown(report *ports.EvaluationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Model Evaluation Report\n\n")
	fmt.Fprintf(&b, "Report `%s` at %s\n\n", report.ID, report.CreatedAt.String())

	decision := "DO NOT DEPLOY"
	if report.DeployModel {
		decision = "DEPLOY"
	}
	fmt.Fprintf(&b, "**Decision:** %s\n\n", decision)

	fmt.Fprintf(&b, "## Metrics\n\n")
	fmt.Fprintf(&b, "- Accuracy: %.4f\n", report.Metrics.Accuracy)
	fmt.Fprintf(&b, "- Precision: %.4f\n", report.Metrics.Precision)
	fmt.Fprintf(&b, "- Recall: %.4f\n", report.Metrics.Recall)
	fmt.Fprintf(&b, "- F1: %.4f\n\n", report.Metrics.F1)

	fmt.Fprintf(&b, "## Cross-Validation Stability\n\n")
	fmt.Fprintf(&b, "- Mean: %.4f\n", report.Stability.Mean)
	fmt.Fprintf(&b, "- Std: %.4f\n", report.Stability.Std)
	fmt.Fprintf(&b, "- Range: [%.4f, %.4f]\n\n", report.Stability.Min, report.Stability.Max)

	fmt.Fprintf(&b, "## Threshold Gate\n\n")
	fmt.Fprintf(&b, "- Accuracy %.4f vs threshold %.4f: %s\n",
		report.Gate.AccuracyValue, report.Gate.AccuracyThreshold, passFail(report.Gate.AccuracyCheck))
	fmt.Fprintf(&b, "- F1 %.4f vs threshold %.4f: %s\n",
		report.Gate.F1Value, report.Gate.F1Threshold, passFail(report.Gate.F1Check))

	return b.String()
}

// ToHTML renders a markdown document into a standalone HTML fragment
func (r *Renderer) ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}
