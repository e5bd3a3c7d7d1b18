package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonathan/cutgen/internal/config"
	"github.com/jonathan/cutgen/internal/dataset"
	"github.com/jonathan/cutgen/internal/db"
	"github.com/jonathan/cutgen/internal/observability"
	"github.com/jonathan/cutgen/internal/schemas"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a generated dataset against the plate geometry",
	Long: `Reads PREFIX_batch.csv, PREFIX_defects.csv and PREFIX_params.csv (or a run stored with --db-url)
and reports items or defects outside the geometric bounds.`,
	RunE:  runCheck,
}

var (
	checkInput       string
	checkRunID       string
	checkDatabaseURL string
	checkOutput      string
	checkVerbose     bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkInput, "in", "i", "", "Dataset path prefix (mutually exclusive with --run-id)")
	checkCmd.Flags().StringVar(&checkRunID, "run-id", "", "ID of a stored generation run (mutually exclusive with --in)")
	checkCmd.Flags().StringVar(&checkDatabaseURL, "db-url", "", "PostgreSQL connection URL for --run-id (optional, defaults to DATABASE_URL env var)")
	checkCmd.Flags().StringVarP(&checkOutput, "out", "o", "", "Path to output Violations JSON file (optional)")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Print each violation")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	if checkInput == "" && checkRunID == "" {
		return fmt.Errorf("either --in or --run-id must be provided")
	}
	if checkInput != "" && checkRunID != "" {
		return fmt.Errorf("--in and --run-id are mutually exclusive; provide only one")
	}

	var (
		loaded *dataset.Loaded
		err    error
	)
	if checkRunID != "" {
		loaded, err = loadStoredRun(context.Background(), checkRunID, checkDatabaseURL)
		if err != nil {
			return err
		}
	} else {
		loaded, err = dataset.Read(checkInput)
		if err != nil {
			var readErr *dataset.ReadError
			var parseErr *dataset.ParseError
			if errors.As(err, &readErr) || errors.As(err, &parseErr) {
				return fmt.Errorf("invalid dataset: %w", err)
			}
			return fmt.Errorf("failed to read dataset: %w", err)
		}
	}

	violations := dataset.Check(loaded.Dataset, loaded.Geometry)

	if checkOutput != "" {
		if err := writeViolations(violations, checkOutput); err != nil {
			return err
		}
	}

	if checkVerbose {
		observability.NewPrinter(os.Stdout).PrintViolations(violations)
	}

	// Output results
	if violations.Empty() {
		_, _ = fmt.Fprintf(os.Stdout, "Check passed: %d items and %d defects within bounds\n",
			loaded.Dataset.ItemCount(), loaded.Dataset.DefectCount())
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "Check found %d violation(s)\n", len(violations.Violations))
	if checkOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", checkOutput)
	}

	// Return error to indicate violations were found (exit code 1)
	return fmt.Errorf("check found %d violation(s)", len(violations.Violations))
}

// loadStoredRun fetches a dataset and its geometry from the database
func loadStoredRun(ctx context.Context, runIDStr, databaseURL string) (*dataset.Loaded, error) {
	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id format: %w", err)
	}

	if databaseURL == "" {
		databaseURL = os.Getenv(config.EnvDatabaseURL)
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required with --run-id")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	ds, err := database.LoadDataset(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset of run %s: %w", runID, err)
	}
	return &dataset.Loaded{Dataset: ds, Geometry: run.Geometry()}, nil
}

func writeViolations(violations any, path string) error {
	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	jsonBytes, err := json.MarshalIndent(violations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal violations to JSON: %w", err)
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write violations to output file: %w", err)
	}

	// Validate output against schema (non-fatal)
	schemaPath := schemas.ResolveSchemaPath(schemas.ViolationsSchema)
	if schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: Generated violations do not validate against schema: %v\n", err)
			} else {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
			}
		}
	}
	return nil
}
