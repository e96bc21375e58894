package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/queue"
)

var (
	exportPath string
	importPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the queue to CSV",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import queue rows from CSV",
	Long:  "Adds postings from a previously exported CSV. Existing queue items are never modified.",
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "jobs_export.csv", "output file path")
	importCmd.Flags().StringVarP(&importPath, "in", "i", "", "input file path (required)")
	importCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := queue.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open queue store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	f, err := os.Create(exportPath)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := store.ExportCSV(f); err != nil {
		return err
	}
	fmt.Printf("Exported queue to %s\n", exportPath)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := queue.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open queue store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	f, err := os.Open(importPath)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	added, err := store.ImportCSV(f)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d new postings from %s\n", added, importPath)
	return nil
}
