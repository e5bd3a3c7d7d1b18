package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/cutgen/internal/config"
	"github.com/jonathan/cutgen/internal/generation"
	"github.com/jonathan/cutgen/internal/observability"
	"github.com/jonathan/cutgen/internal/pipeline"
	"github.com/spf13/cobra"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate one or more cutting instances",
	Long: `Generates stacks of items and plates of defects and writes them as PREFIX_batch.csv,
PREFIX_defects.csv, PREFIX_params.csv and PREFIX_manifest.json.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath        string
	genOut               string
	genPolicy            string
	genSeed              uint64
	genStacks            int
	genAvgStackSize      int
	genAvgDefects        int
	genPlates            int
	genLargeItemRatio    float64
	genBorderDefectRatio float64
	genNoDefectRatio     float64
	genDefectMinSize     int
	genMaxAttempts       int
	genCount             int
	genXlsx              bool
	genDatabaseURL       string
	genVerbose           bool
)

func init() {
	// Config file flag (processed first)
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")

	generateCommand.Flags().StringVarP(&genOut, "out", "o", "", "Output path prefix")
	generateCommand.Flags().StringVarP(&genPolicy, "policy", "p", generation.PolicyMixed, "Generation policy: basic or mixed")
	generateCommand.Flags().Uint64Var(&genSeed, "seed", 0, "Random seed (0 picks one; defaults to CUTGEN_SEED env var)")
	generateCommand.Flags().IntVar(&genStacks, "stacks", generation.DefaultNbStacks, "Number of stacks")
	generateCommand.Flags().IntVar(&genAvgStackSize, "avg-stack-size", generation.DefaultAvgStackSize, "Average items per stack")
	generateCommand.Flags().IntVar(&genAvgDefects, "avg-defects", generation.DefaultAvgDefects, "Average defects per plate")
	generateCommand.Flags().IntVar(&genPlates, "plates", generation.DefaultNbPlates, "Number of plates")
	generateCommand.Flags().Float64Var(&genLargeItemRatio, "large-item-ratio", generation.DefaultLargeItemRatio, "Probability of drawing a large item (mixed)")
	generateCommand.Flags().Float64Var(&genBorderDefectRatio, "border-defect-ratio", generation.DefaultBorderDefectRatio, "Probability of snapping a defect to the border (mixed)")
	generateCommand.Flags().Float64Var(&genNoDefectRatio, "no-defect-ratio", generation.DefaultNoDefectRatio, "Probability of a plate without defects (mixed)")
	generateCommand.Flags().IntVar(&genDefectMinSize, "defect-min-size", generation.DefaultDefectMinSize, "Minimum defect width and height")
	generateCommand.Flags().IntVar(&genMaxAttempts, "max-attempts", 1_000_000, "Rejection sampling retry budget (0 means unbounded)")
	generateCommand.Flags().IntVarP(&genCount, "count", "n", 1, "Number of instances; more than one writes PREFIX_<i>")
	generateCommand.Flags().BoolVar(&genXlsx, "xlsx", false, "Also write PREFIX.xlsx")
	generateCommand.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL for dataset persistence
	generateCommand.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	applyGenerateFlags(cmd, &cfg)

	// Step 3: Environment fallbacks
	env, err := config.NewEnvConfig()
	if err != nil {
		return err
	}
	defaults := config.Config{
		Policy:      generation.PolicyMixed,
		Count:       1,
		Seed:        env.Seed,
		DatabaseURL: env.DatabaseURL,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate
	if cfg.Out == "" {
		return fmt.Errorf("--out must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	policy, err := generation.PolicyByName(cfg.Policy)
	if err != nil {
		return err
	}

	level := observability.LevelWarn
	if cfg.Verbose {
		level = observability.LevelDebug
	}
	logger := observability.NewLogger(observability.LogConfig{Level: level, Output: os.Stderr})

	results, err := pipeline.RunBatch(ctx, pipeline.RunOptions{
		Out:         cfg.Out,
		Count:       cfg.Count,
		Seed:        cfg.Seed,
		Params:      cfg.Params(),
		Policy:      policy,
		Xlsx:        cfg.Xlsx,
		DatabaseURL: cfg.DatabaseURL,
		Verbose:     cfg.Verbose,
		Logger:      logger,
		Output:      os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	for _, res := range results {
		_, _ = fmt.Fprintf(os.Stdout, "Wrote %s (seed %d, %d items, %d defects)\n",
			res.Prefix, res.Manifest.Seed, res.Manifest.Counts.Items, res.Manifest.Counts.Defects)
	}
	return nil
}

func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Out = genOut
	}
	if flags.Changed("policy") {
		cfg.Policy = genPolicy
	}
	if flags.Changed("seed") {
		cfg.Seed = genSeed
	}
	if flags.Changed("stacks") {
		cfg.NbStacks = config.Int(genStacks)
	}
	if flags.Changed("avg-stack-size") {
		cfg.AvgStackSize = config.Int(genAvgStackSize)
	}
	if flags.Changed("avg-defects") {
		cfg.AvgDefects = config.Int(genAvgDefects)
	}
	if flags.Changed("plates") {
		cfg.NbPlates = config.Int(genPlates)
	}
	if flags.Changed("large-item-ratio") {
		cfg.LargeItemRatio = config.Float(genLargeItemRatio)
	}
	if flags.Changed("border-defect-ratio") {
		cfg.BorderDefectRatio = config.Float(genBorderDefectRatio)
	}
	if flags.Changed("no-defect-ratio") {
		cfg.NoDefectRatio = config.Float(genNoDefectRatio)
	}
	if flags.Changed("defect-min-size") {
		cfg.DefectMinSize = config.Int(genDefectMinSize)
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = config.Int(genMaxAttempts)
	}
	if flags.Changed("count") {
		cfg.Count = genCount
	}
	if flags.Changed("xlsx") {
		cfg.Xlsx = genXlsx
	}
	if flags.Changed("verbose") {
		cfg.Verbose = genVerbose
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}
}
