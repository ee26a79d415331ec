package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"driftwatch/adapters/api"
	"driftwatch/adapters/postgres"
	"driftwatch/app"
	"driftwatch/internal/config"
	"driftwatch/internal/testkit"
	"driftwatch/ports"
)

const (
	sampleCount = 150
	dataSeed    = 42
)

// serve starts the HTTP layer around a demo model trained at startup.
// In a real deployment the classifier and scaler would be loaded from a
// model artifact instead.
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

	table := testkit.GenerateTable(sampleCount, dataSeed)
	features, err := table.Rows(testkit.FeatureNames...)
	if err != nil {
		log.Fatalf("Failed to build feature rows: %v", err)
	}
	labelCol, ok := table.Column("species")
	if !ok {
		log.Fatal("Demo table is missing the species column")
	}
	labels := make([]int, len(labelCol))
	for i, v := range labelCol {
		labels[i] = int(v)
	}

	scaler := testkit.NewStandardScaler()
	if err := scaler.Fit(features); err != nil {
		log.Fatalf("Failed to fit scaler: %v", err)
	}
	scaled, err := scaler.Transform(features)
	if err != nil {
		log.Fatalf("Failed to scale features: %v", err)
	}

	clf := testkit.NewCentroidClassifier()
	if err := clf.Fit(ctx, scaled, labels); err != nil {
		log.Fatalf("Failed to train classifier: %v", err)
	}

	monitoring, err := app.NewMonitoringService(cfg.Drift.Policy, repo, nil)
	if err != nil {
		log.Fatalf("Failed to create monitoring service: %v", err)
	}

	server := api.NewServer(clf, scaler, testkit.ClassNames, monitoring, nil)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
