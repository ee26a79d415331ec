package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"driftwatch/adapters/excel"
	"driftwatch/adapters/postgres"
	"driftwatch/adapters/report"
	"driftwatch/app"
	"driftwatch/domain/dataset"
	"driftwatch/domain/drift"
	"driftwatch/internal/config"
	"driftwatch/internal/testkit"
	"driftwatch/ports"
)

const (
	referenceRows = 150
	currentRows   = 120
	referenceSeed = 42
	currentSeed   = 1042
	driftDelta    = 1.5
)

// monitor runs one drift monitoring cycle. Reference and current snapshots
// come from REFERENCE_FILE/CURRENT_FILE when set, otherwise from the
// synthetic drift scenario. Exits nonzero when the cycle raises an alert.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	var repo ports.ReportRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		pg := postgres.NewReportRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure report schema: %v", err)
		}
		repo = pg
	}

	reference, current, err := loadSnapshots(cfg)
	if err != nil {
		log.Fatalf("Failed to load snapshots: %v", err)
	}

	service, err := app.NewMonitoringService(cfg.Drift.Policy, repo, nil)
	if err != nil {
		log.Fatalf("Failed to create monitoring service: %v", err)
	}

	run, err := service.Run(ctx, app.MonitorInput{
		Reference:       reference,
		Current:         current,
		ExcludedColumns: cfg.Drift.ExcludedColumns,
	})
	if err != nil {
		log.Fatalf("Monitoring cycle failed: %v", err)
	}

	if err := writeArtifacts(cfg.Paths.ReportDir, run); err != nil {
		log.Fatalf("Failed to write report artifacts: %v", err)
	}

	if run.Summary.OverallStatus == drift.StatusAlert {
		log.Printf("Drift alert raised (severity: %s)", run.Summary.DriftSeverity)
		os.Exit(1)
	}
	log.Println("No drift alert")
}

func loadSnapshots(cfg *config.Config) (*dataset.Table, *dataset.Table, error) {
	if cfg.Paths.ReferenceFile != "" && cfg.Paths.CurrentFile != "" {
		return readTables(
			excel.NewDataReader(cfg.Paths.ReferenceFile, nil),
			excel.NewDataReader(cfg.Paths.CurrentFile, nil),
		)
	}

	log.Println("No snapshot files configured, using synthetic drift scenario")
	reference := testkit.GenerateTable(referenceRows, referenceSeed)
	current := testkit.GenerateDriftedTable(currentRows, currentSeed, driftDelta)
	return reference, current, nil
}

func readTables(reference, current ports.TableReader) (*dataset.Table, *dataset.Table, error) {
	ref, err := reference.Read()
	if err != nil {
		return nil, nil, err
	}
	cur, err := current.Read()
	if err != nil {
		return nil, nil, err
	}
	return ref, cur, nil
}

func writeArtifacts(dir string, run *ports.MonitoringRun) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "monitoring.json"), payload, 0o644); err != nil {
		return err
	}

	renderer := report.NewRenderer()
	md := renderer.MonitoringMarkdown(run)
	if err := os.WriteFile(filepath.Join(dir, "monitoring.md"), []byte(md), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "monitoring.html"), renderer.ToHTML(md), 0o644)
}
