package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"sdkscout"
	"sdkscout/internal/store"
)

var (
	flagDB     string
	flagFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sdkscout",
	Short:         "SDK repository structure detection and API coverage analysis",
	Long:          "sdkscout detects an SDK repository's language, source folder, and samples folder, and measures how much of the SDK's reachable public API the samples exercise.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "persistent detection store path (default: none, in-memory only)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(coverageCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Detect an SDK repository's structure",
	Long:  "Locates build markers, resolves the repository's language and source folder, and ranks samples-folder candidates.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	start := time.Now()

	root, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	detector, cleanup, err := buildDetector(root)
	if err != nil {
		return err
	}
	defer cleanup()

	var spinner *pterm.SpinnerPrinter
	if flagFormat == "text" {
		spinner, _ = pterm.DefaultSpinner.
			WithWriter(os.Stderr).
			WithRemoveWhenDone(true).
			Start("Scanning " + root)
	}

	result, err := detector.Detect(cmd.Context(), root)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Detected %s in %s\n", root, time.Since(start).Round(time.Millisecond))
	if flagFormat == "text" {
		formatDetectionText(os.Stdout, result)
		return nil
	}
	return outputJSON(result)
}

var (
	flagAPIIndex   string
	flagSamplesDir string
)

var coverageCmd = &cobra.Command{
	Use:   "coverage [path]",
	Short: "Measure sample coverage of the SDK's reachable API",
	Long:  "Loads an extracted API index, computes the operations reachable from the SDK's entry points, scans the samples folder for call sites, and reports which reachable operations the samples cover.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCoverage,
}

func init() {
	coverageCmd.Flags().StringVar(&flagAPIIndex, "api", "", "path to the extracted API index JSON (required)")
	coverageCmd.Flags().StringVar(&flagSamplesDir, "samples", "", "samples folder (default: the detected samples folder)")
	_ = coverageCmd.MarkFlagRequired("api")
}

func runCoverage(cmd *cobra.Command, args []string) error {
	root, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(flagAPIIndex)
	if err != nil {
		return fmt.Errorf("reading api index: %w", err)
	}
	graph, err := sdkscout.LoadAPIIndex(data)
	if err != nil {
		return err
	}
	reachable := sdkscout.Reachable(graph)

	detector, cleanup, err := buildDetector(root)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	samplesDir := flagSamplesDir
	if samplesDir == "" {
		result, err := detector.Detect(ctx, root)
		if err != nil {
			return err
		}
		samplesDir = result.SamplesDir
		if samplesDir == "" {
			return fmt.Errorf("no samples folder detected under %s; pass --samples", root)
		}
	} else if !filepath.IsAbs(samplesDir) {
		samplesDir = filepath.Join(root, samplesDir)
	}

	sites, fileCount, err := detector.ScanSamples(ctx, samplesDir)
	if err != nil {
		return fmt.Errorf("scanning samples: %w", err)
	}

	index := sdkscout.MatchCoverage(reachable, sites, sdkscout.CoverageOptions{
		FileCount: fileCount,
	})

	if flagFormat == "text" {
		formatCoverageText(os.Stdout, index)
		return nil
	}
	return outputJSON(index)
}

// buildDetector constructs a Detector from the merged config, attaching the
// persistent store when --db (or the config's db key) is set. The returned
// cleanup closes the store.
func buildDetector(root string) (*sdkscout.Detector, func(), error) {
	cfg := loadConfig(root)

	opts := []sdkscout.Option{
		sdkscout.WithCacheSize(cfg.CacheSize),
		sdkscout.WithLimits(cfg.MaxFiles, cfg.MaxDepth),
	}

	cleanup := func() {}
	dbPath := flagDB
	if dbPath == "" {
		dbPath = cfg.DB
	}
	if dbPath != "" {
		s, err := store.NewStore(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening detection store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("migrating detection store: %w", err)
		}
		opts = append(opts, sdkscout.WithStore(s))
		cleanup = func() { s.Close() }
	}

	return sdkscout.NewDetector(opts...), cleanup, nil
}

// resolveTargetDir returns the absolute path of the directory to analyze.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}
