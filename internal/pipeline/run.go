// Package pipeline provides the high-level orchestration for generating and
// storing one or many datasets.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cutgen/internal/dataset"
	"github.com/jonathan/cutgen/internal/db"
	"github.com/jonathan/cutgen/internal/export"
	"github.com/jonathan/cutgen/internal/generation"
	"github.com/jonathan/cutgen/internal/observability"
	"github.com/jonathan/cutgen/internal/sampling"
	"github.com/jonathan/cutgen/internal/schemas"
	"github.com/jonathan/cutgen/internal/types"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step     string `json:"step"`
	Instance int    `json:"instance"`
	Message  string `json:"message"`
	Prefix   string `json:"prefix,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Progress steps
const (
	StepGenerated = "generated"
	StepWritten   = "written"
	StepStored    = "stored"
)

// RunOptions holds configuration for a generation run
type RunOptions struct {
	Out         string // Path prefix; with Count > 1 each instance gets a _<i> suffix
	Count       int
	Seed        uint64 // 0 picks a fresh seed
	Params      generation.Params
	Policy      generation.Policy
	Xlsx        bool
	DatabaseURL string
	Verbose     bool
	Logger      *slog.Logger
	Output      io.Writer // Verbose summaries, defaults to stdout
	OnProgress  ProgressCallback
}

// Result holds the outcome of one generated instance
type Result struct {
	Prefix   string
	Manifest *types.Manifest
	Dataset  *types.Dataset
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step string, instance int, prefix, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Instance: instance,
			Message:  message,
			Prefix:   prefix,
		})
	}
}

// InstancePrefix returns the output prefix of instance i
func InstancePrefix(out string, count, i int) string {
	if count <= 1 {
		return out
	}
	return fmt.Sprintf("%s_%d", out, i)
}

// InstanceSeed returns the seed of instance i. Instances use disjoint streams
// so a batch does not depend on scheduling.
func InstanceSeed(seed uint64, i int) uint64 {
	return seed + uint64(i)
}

// RunBatch generates opts.Count datasets concurrently and returns them in instance order
func RunBatch(ctx context.Context, opts RunOptions) ([]Result, error) {
	if opts.Out == "" {
		return nil, fmt.Errorf("output prefix is required")
	}
	if opts.Count <= 0 {
		opts.Count = 1
	}
	if opts.Policy == nil {
		opts.Policy = generation.Mixed{}
	}
	if opts.Logger == nil {
		opts.Logger = observability.Discard()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64() | 1
		opts.Logger.Info("picked fresh seed", "seed", opts.Seed)
	}

	// Initialize database connection if configured
	var database *db.DB
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset store: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		opts.Logger.Debug("connected to database")
	}

	results := make([]Result, opts.Count)
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Count; i++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := GenerateOne(gCtx, &opts, database, i)
			if err != nil {
				return fmt.Errorf("instance %d failed: %w", i, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Verbose {
		printer := observability.NewPrinter(opts.Output)
		for _, res := range results {
			printer.PrintManifest(res.Manifest)
			printer.PrintStacks(res.Dataset)
		}
	}
	return results, nil
}

// GenerateOne builds, writes and optionally stores instance i. A nil database skips storage.
func GenerateOne(ctx context.Context, opts *RunOptions, database *db.DB, i int) (*Result, error) {
	prefix := InstancePrefix(opts.Out, opts.Count, i)
	seed := InstanceSeed(opts.Seed, i)
	log := opts.Logger.With("instance", i, "seed", seed)

	start := time.Now()
	ds, err := generation.New(opts.Params, opts.Policy, sampling.NewRand(seed)).Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}
	log.Info("dataset generated",
		"items", ds.ItemCount(),
		"defects", ds.DefectCount(),
		"duration", time.Since(start))
	emitProgress(opts, StepGenerated, i, prefix, fmt.Sprintf("generated %d items and %d defects", ds.ItemCount(), ds.DefectCount()))

	paths := dataset.PathsFor(prefix)
	if err := dataset.WriteAll(ds, opts.Params.Geometry, prefix); err != nil {
		return nil, err
	}

	manifest := NewManifest(seed, opts.Policy.Name(), opts.Params, ds, paths, opts.Xlsx)
	if opts.Xlsx {
		if err := export.WriteWorkbook(ds, paths.Xlsx); err != nil {
			return nil, err
		}
	}
	if err := WriteManifest(manifest, paths.Manifest); err != nil {
		return nil, err
	}
	if schemaPath := schemas.ResolveSchemaPath(schemas.ManifestSchema); schemaPath != "" {
		if err := schemas.ValidateDocument(schemaPath, manifest); err != nil {
			log.Warn("manifest failed schema validation", "error", err)
		}
	}
	log.Debug("dataset written", "prefix", prefix)
	emitProgress(opts, StepWritten, i, prefix, "wrote "+paths.Batch)

	if database != nil {
		if err := database.SaveDataset(ctx, manifest, ds); err != nil {
			return nil, fmt.Errorf("failed to store dataset: %w", err)
		}
		log.Info("dataset stored", "run_id", manifest.RunID)
		emitProgress(opts, StepStored, i, prefix, "stored run "+manifest.RunID.String())
	}

	return &Result{Prefix: prefix, Manifest: manifest, Dataset: ds}, nil
}

// NewManifest describes a generated dataset. File names are relative to the prefix directory.
func NewManifest(seed uint64, policy string, params generation.Params, ds *types.Dataset, paths dataset.Paths, xlsx bool) *types.Manifest {
	files := types.ManifestFiles{
		Batch:   filepath.Base(paths.Batch),
		Defects: filepath.Base(paths.Defects),
		Params:  filepath.Base(paths.Params),
	}
	if xlsx {
		files.Xlsx = filepath.Base(paths.Xlsx)
	}

	return &types.Manifest{
		RunID:      uuid.New(),
		Seed:       seed,
		Policy:     policy,
		CreatedAt:  time.Now().UTC(),
		Counts:     types.NewManifestCounts(ds),
		Files:      files,
		Parameters: Parameters(params),
	}
}

// Parameters flattens the effective generation parameters for the manifest
func Parameters(p generation.Params) map[string]any {
	return map[string]any{
		"nb_stacks":           p.NbStacks,
		"avg_stack_size":      p.AvgStackSize,
		"avg_defects":         p.AvgDefects,
		"nb_plates":           p.NbPlates,
		"large_item_ratio":    p.LargeItemRatio,
		"border_defect_ratio": p.BorderDefectRatio,
		"no_defect_ratio":     p.NoDefectRatio,
		"defect_min_size":     p.DefectMinSize,
		"max_attempts":        p.MaxAttempts,
		"min_waste":           p.Geometry.MinWaste,
		"min_xx":              p.Geometry.MinXX,
		"min_yy":              p.Geometry.MinYY,
		"max_xx":              p.Geometry.MaxXX,
		"plate_width":         p.Geometry.PlateWidth,
		"plate_height":        p.Geometry.PlateHeight,
	}
}

// WriteManifest writes the manifest as indented JSON
func WriteManifest(m *types.Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return &dataset.WriteError{Path: path, Cause: err}
	}
	return nil
}
