package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"driftwatch/adapters/postgres"
	"driftwatch/adapters/report"
	"driftwatch/app"
	"driftwatch/internal/config"
	"driftwatch/internal/testkit"
	"driftwatch/ports"
)

const (
	sampleCount  = 150
	dataSeed     = 42
	testFraction = 0.3
)

// evaluate trains a demo classifier on synthetic data, runs the full
// evaluation pipeline, and writes the deploy/no-deploy report. The process
// exits nonzero when the gate rejects the model, so CI can branch on it.
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

	features, labels := testkit.GenerateDataset(sampleCount, dataSeed)
	trainX, trainY, testX, testY := splitTrainTest(features, labels, testFraction)

	scaler := testkit.NewStandardScaler()
	if err := scaler.Fit(trainX); err != nil {
		log.Fatalf("Failed to fit scaler: %v", err)
	}
	scaledTrain, err := scaler.Transform(trainX)
	if err != nil {
		log.Fatalf("Failed to scale training data: %v", err)
	}
	scaledTest, err := scaler.Transform(testX)
	if err != nil {
		log.Fatalf("Failed to scale test data: %v", err)
	}
	scaledAll, err := scaler.Transform(features)
	if err != nil {
		log.Fatalf("Failed to scale full dataset: %v", err)
	}

	clf := testkit.NewCentroidClassifier()
	if err := clf.Fit(ctx, scaledTrain, trainY); err != nil {
		log.Fatalf("Failed to train classifier: %v", err)
	}

	service, err := app.NewEvaluationService(cfg.Thresholds(), cfg.Gate.CVFolds, cfg.Gate.CVSeed, repo, nil)
	if err != nil {
		log.Fatalf("Failed to create evaluation service: %v", err)
	}

	evalReport, err := service.Evaluate(ctx, clf, testkit.CentroidFactory{}, scaledTest, testY, scaledAll, labels, testkit.ClassNames)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	if err := writeArtifacts(cfg.Paths.ReportDir, evalReport); err != nil {
		log.Fatalf("Failed to write report artifacts: %v", err)
	}

	if !evalReport.DeployModel {
		log.Println("Gate rejected the model")
		os.Exit(1)
	}
	log.Println("Gate passed, model approved for deployment")
}

// splitTrainTest keeps class balance by splitting each class round-robin
func splitTrainTest(features [][]float64, labels []int, testFraction float64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	testEvery := int(1 / testFraction)
	seen := make(map[int]int)
	for i, row := range features {
		class := labels[i]
		if seen[class]%testEvery == 0 {
			testX = append(testX, row)
			testY = append(testY, class)
		} else {
			trainX = append(trainX, row)
			trainY = append(trainY, class)
		}
		seen[class]++
	}
	return trainX, trainY, testX, testY
}

func writeArtifacts(dir string, evalReport *ports.EvaluationReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(evalReport, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "evaluation.json"), payload, 0o644); err != nil {
		return err
	}

	renderer := report.NewRenderer()
	md := renderer.EvaluationMarkdown(evalReport)
	if err := os.WriteFile(filepath.Join(dir, "evaluation.md"), []byte(md), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "evaluation.html"), renderer.ToHTML(md), 0o644)
}
