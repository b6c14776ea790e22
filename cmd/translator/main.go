package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"nat-rule-translator/internal/engine"
	"nat-rule-translator/internal/model"
	"nat-rule-translator/internal/parser"

	"github.com/spf13/cobra"
)

var (
	rulesFile   string
	objectsFile string
	outFile     string
	provider    string
	dbDSN       string
	logLevel    string
	logFile     string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nat-rule-translator",
		Short: "Translate Checkpoint NAT rules to Cisco ASA configuration",
		Long: `nat-rule-translator reads a Checkpoint R81.x NAT policy export and its
	objects database and emits the equivalent Cisco ASA NAT statements.`,
		RunE: run,
	}

	// Set up flags
	rootCmd.Flags().StringVar(&rulesFile, "rules", "", "Checkpoint NAT rules JSON file (for 'checkpoint' provider)")
	rootCmd.Flags().StringVar(&objectsFile, "objects", "", "Checkpoint objects JSON file (for 'checkpoint' provider)")
	rootCmd.Flags().StringVar(&outFile, "out", "asa_rules.txt", "Output file for the generated ASA configuration")
	rootCmd.Flags().StringVar(&provider, "provider", "checkpoint", "Input provider: 'checkpoint' (JSON files) or 'mariadb'")
	rootCmd.Flags().StringVar(&dbDSN, "db", "", "Database connection string (for 'mariadb' provider)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// --- 1. Setup Logging ---
	logger := setupLogger(logLevel, logFile)
	slog.SetDefault(logger)

	slog.Info("Starting NAT rule translation", "provider", provider)
	startTime := time.Now()

	// --- 2. Load Input Documents ---
	objects, sections, rules, err := loadDocuments(provider, rulesFile, objectsFile, dbDSN)
	if err != nil {
		slog.Error("Failed to load input documents", "error", err)
		return err
	}
	slog.Info("Input documents loaded", "objects", len(objects), "sections", len(sections), "rules", len(rules))

	// --- 3. Translate ---
	translator := engine.NewTranslator(objects, sections)
	doc, stats := translator.Translate(rules)

	// --- 4. Write Output ---
	out, err := os.Create(outFile)
	if err != nil {
		slog.Error("Failed to create output file", "path", outFile, "error", err)
		return err
	}
	defer out.Close()

	if _, err := out.WriteString(doc.Render()); err != nil {
		slog.Error("Failed to write output file", "path", outFile, "error", err)
		return err
	}

	// --- 5. Report Statistics ---
	slog.Info("Translation statistics",
		"total", stats.Total,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"object_errors", stats.ObjectErrors)
	slog.Info("Translation complete", "output_file", outFile, "duration", time.Since(startTime))
	return nil
}

func setupLogger(level, logFilePath string) *slog.Logger {
	var logWriter io.Writer = os.Stderr
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logWriter = f
		}
		// We don't log an error here because the logger isn't set up yet.
		// It will just fall back to stderr.
	}

	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: lvl}))
}

func loadDocuments(provider, rulesPath, objectsPath, dsn string) (map[string]*model.NetworkObject, []model.Section, []model.RawRule, error) {
	switch provider {
	case "checkpoint":
		if rulesPath == "" || objectsPath == "" {
			return nil, nil, nil, fmt.Errorf("rules and objects file paths must be provided for checkpoint provider")
		}

		objectsF, err := os.Open(objectsPath)
		if err != nil {
			return nil, nil, nil, err
		}
		defer objectsF.Close()
		objects, err := parser.ParseObjects(objectsF)
		if err != nil {
			return nil, nil, nil, err
		}

		rulesF, err := os.Open(rulesPath)
		if err != nil {
			return nil, nil, nil, err
		}
		defer rulesF.Close()
		rules, sections, err := parser.ParseRules(rulesF)
		if err != nil {
			return nil, nil, nil, err
		}
		return objects, sections, rules, nil
	case "mariadb":
		if dsn == "" {
			return nil, nil, nil, fmt.Errorf("database connection string must be provided for mariadb provider")
		}
		l, err := parser.NewMariaDBLoader(dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		defer l.Close()
		if err := l.Load(); err != nil {
			return nil, nil, nil, err
		}
		return l.Objects, l.Sections, l.Rules, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown input provider: %s", provider)
	}
}
