// Package main provides the sheetdiff command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sheetDiff/internal/compare"
	"sheetDiff/internal/config"
	"sheetDiff/internal/excel"
	"sheetDiff/internal/logger"
	"sheetDiff/internal/review"
	"sheetDiff/internal/summary"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	force      bool

	cfg       *config.Config
	logCloser io.Closer
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetdiff",
		Short: "Compare the sheets of Excel workbooks",
		Long: `sheetdiff compares every sheet of a workbook cell by cell and writes
the mismatching values, highlighted, to a "Differences" sheet.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the TOML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "compare <workbook.xlsx>",
			Short: "Compare the sheets of one workbook and save the result in place",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCompare(cfg, args[0])
			},
		},
		&cobra.Command{
			Use:   "compare-all",
			Short: "Compare every workbook in the input directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCompareAll(cfg)
			},
		},
		&cobra.Command{
			Use:   "scan",
			Short: "List the sheets and populated extents of every workbook in the input directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runScan(cfg)
			},
		},
		&cobra.Command{
			Use:   "review <workbook.xlsx>",
			Short: "Browse the differences interactively before saving",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runReview(cfg, args[0])
			},
		},
		&cobra.Command{
			Use:   "explain <workbook.xlsx>",
			Short: "Summarize the differences with Gemini without modifying the workbook",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runExplain(cmd.Context(), cfg, args[0])
			},
		},
		initConfigCmd(),
	)

	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logCloser, err = logger.Setup(cfg.Log.Directory, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("error setting up logging: %w", err)
	}
	logger.Info("Loaded config", "path", configPath, "command", cmd.Name())
	return nil
}

func initConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		// Skip the root setup, which would create the file as a side effect.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitConfig(configPath, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runInitConfig(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.SaveConfig(path, config.Default()); err != nil {
		return err
	}
	fmt.Printf("✓ Config written to: %s\n", path)
	return nil
}

func compareOptions(cfg *config.Config) compare.Options {
	return compare.Options{
		DifferencesSheet: cfg.Compare.DifferencesSheet,
		HighlightColor:   cfg.Compare.HighlightColor,
		SheetFilter:      cfg.Compare.SheetFilter,
	}
}

// reportPathFor expands the {name} placeholder of the configured report path
// with the workbook's base name.
func reportPathFor(output, workbook string) string {
	name := strings.TrimSuffix(filepath.Base(workbook), filepath.Ext(workbook))
	return strings.ReplaceAll(output, "{name}", name)
}

func saveReport(cfg *config.Config, report *compare.Report) error {
	if cfg.Report.Output == "" {
		return nil
	}
	path := reportPathFor(cfg.Report.Output, report.File)
	if err := report.SaveToFile(path); err != nil {
		logger.Error("Failed to save report", "path", path, "error", err)
		return fmt.Errorf("failed to save report: %w", err)
	}
	logger.Info("Report saved", "path", path)
	fmt.Printf("✓ Report saved to: %s\n", path)
	return nil
}

func printReport(report *compare.Report) {
	fmt.Printf("Compared sheets: %s\n", strings.Join(report.DataSheets, ", "))
	fmt.Printf("Differences found: %d\n", len(report.Differences))
	if report.CreatedSheet {
		fmt.Printf("Created sheet: %s\n", report.DifferencesSheet)
	}
}

func runCompare(cfg *config.Config, path string) error {
	logger.Info("Starting compare operation", "input_file", path)

	report, err := compare.CompareFile(path, compareOptions(cfg))
	if err != nil {
		logger.Error("Compare operation failed", "file", path, "error", err)
		return fmt.Errorf("error comparing sheets: %w", err)
	}

	printReport(report)
	if err := saveReport(cfg, report); err != nil {
		return err
	}
	fmt.Printf("Differences highlighted in orange and saved in %s\n", path)
	return nil
}

func runCompareAll(cfg *config.Config) error {
	logger.Info("Starting compare-all operation", "input_directory", cfg.Scan.InputDirectory)

	files, err := excel.FindWorkbooks(cfg.Scan.InputDirectory)
	if err != nil {
		logger.Error("Failed to get Excel files", "error", err)
		return fmt.Errorf("error getting Excel files: %w", err)
	}

	if len(files) == 0 {
		fmt.Printf("No .xlsx files found in directory: %s\n", cfg.Scan.InputDirectory)
		return nil
	}

	logger.Info("Found files to compare", "file_count", len(files))

	successCount := 0
	errorCount := 0
	totalDifferences := 0

	for i, inputFile := range files {
		fileName := filepath.Base(inputFile)
		fmt.Printf("\n[%d/%d] Processing: %s\n", i+1, len(files), fileName)

		logger.Info("Processing file", "file", fileName, "progress", fmt.Sprintf("%d/%d", i+1, len(files)))

		report, err := compare.CompareFile(inputFile, compareOptions(cfg))
		if err == nil {
			err = saveReport(cfg, report)
		}
		if err != nil {
			logger.Error("Failed to compare file", "file", fileName, "error", err)
			fmt.Printf("❌ Error comparing file: %v\n", err)
			errorCount++
			continue
		}

		logger.Info("Successfully compared file", "file", fileName, "differences", len(report.Differences))
		fmt.Printf("✓ %d differences\n", len(report.Differences))
		totalDifferences += len(report.Differences)
		successCount++
	}

	logger.Info("Compare-all operation completed",
		"success_count", successCount,
		"error_count", errorCount,
		"differences", totalDifferences)

	fmt.Printf("\n========================================\n")
	fmt.Printf("Comparison complete!\n")
	fmt.Printf("✓ Success: %d files\n", successCount)
	fmt.Printf("Differences found: %d\n", totalDifferences)
	if errorCount > 0 {
		fmt.Printf("❌ Errors: %d files\n", errorCount)
		return fmt.Errorf("%d of %d workbooks failed", errorCount, len(files))
	}
	return nil
}

func runScan(cfg *config.Config) error {
	logger.Info("Starting scan operation", "input_directory", cfg.Scan.InputDirectory)
	fmt.Println("\nScanning Excel files for sheets...")

	result, err := excel.ScanDirectory(cfg.Scan.InputDirectory)
	if err != nil {
		logger.Error("Scan operation failed", "error", err)
		return fmt.Errorf("error scanning Excel files: %w", err)
	}

	for _, wb := range result.Workbooks {
		fmt.Printf("\n%s\n", wb.Path)
		for _, s := range wb.Sheets {
			fmt.Println(formatSheetInfo(s))
		}
	}
	for _, path := range result.Skipped {
		fmt.Printf("❌ Skipped unreadable file: %s\n", path)
	}

	fmt.Printf("\nScanned %d workbooks\n", len(result.Workbooks))
	return nil
}

func formatSheetInfo(s excel.SheetInfo) string {
	line := fmt.Sprintf("  - %s: %d rows x %d columns", s.Name, s.Rows, s.Columns)
	if len(s.Headers) > 0 {
		line += fmt.Sprintf(" [%s]", strings.Join(s.Headers, " | "))
	}
	return line
}

func runReview(cfg *config.Config, path string) error {
	logger.Info("Starting review operation", "input_file", path)

	editor, err := excel.OpenFile(path)
	if err != nil {
		return fmt.Errorf("error opening workbook: %w", err)
	}
	defer editor.Close()

	report, err := compare.Run(editor, compareOptions(cfg))
	if err != nil {
		logger.Error("Compare operation failed", "file", path, "error", err)
		return fmt.Errorf("error comparing sheets: %w", err)
	}

	save, err := review.Run(report, review.Config{RowsPerPage: cfg.UI.RowsPerPage})
	if err != nil {
		return err
	}

	if !save {
		logger.Info("Review discarded", "file", path)
		fmt.Println("Changes discarded.")
		return nil
	}

	if err := editor.Save(); err != nil {
		logger.Error("Failed to save workbook", "file", path, "error", err)
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := saveReport(cfg, report); err != nil {
		return err
	}
	fmt.Printf("Differences highlighted in orange and saved in %s\n", path)
	return nil
}

func runExplain(ctx context.Context, cfg *config.Config, path string) error {
	logger.Info("Starting explain operation", "input_file", path)

	apiKey := summary.GetGeminiAPIKey()
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	editor, err := excel.OpenFile(path)
	if err != nil {
		return fmt.Errorf("error opening workbook: %w", err)
	}
	defer editor.Close()

	// The comparison only runs in memory; the workbook is never saved here.
	report, err := compare.Run(editor, compareOptions(cfg))
	if err != nil {
		return fmt.Errorf("error comparing sheets: %w", err)
	}

	s, err := summary.NewSummarizer(ctx, apiKey, summary.Options{
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		ChunkSize:   cfg.AI.MaxDifferencesPerRequest,
		DebugDir:    cfg.Log.Directory,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Asking %s about %d differences...\n\n", cfg.AI.Model, len(report.Differences))
	text, err := s.Summarize(ctx, report)
	if err != nil {
		logger.Error("Explain operation failed", "error", err)
		return fmt.Errorf("error generating summary: %w", err)
	}

	fmt.Println(text)
	return nil
}
