package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Investorold/arcshield-sub000/internal/aggregate"
	"github.com/Investorold/arcshield-sub000/internal/config"
	"github.com/Investorold/arcshield-sub000/internal/engine"
	"github.com/Investorold/arcshield-sub000/internal/ingest"
	"github.com/Investorold/arcshield-sub000/internal/model"
	"github.com/Investorold/arcshield-sub000/internal/priority"
	"github.com/Investorold/arcshield-sub000/internal/progress"
	"github.com/Investorold/arcshield-sub000/internal/provenance"
	"github.com/Investorold/arcshield-sub000/internal/report"
	"github.com/Investorold/arcshield-sub000/internal/rules"
)

var (
	scanRulesDirs    []string
	scanNoBuiltin    bool
	scanFormat       string
	scanOut          string
	scanWorkers      int
	scanFailOn       string
	scanMaxFileBytes int64
	scanDisableRules []string
	scanOnlyRules    []string
	scanSeverities   []string
	scanCategories   []string
	scanLanguages    []string
	scanFrameworks   []string
	scanWatch        bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a source tree for vulnerability signatures",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		return runScan(cmd, root)
	},
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanRulesDirs, "rules-dir", nil, "Rule-set directory (repeatable)")
	scanCmd.Flags().BoolVar(&scanNoBuiltin, "no-builtin", false, "Skip the built-in rule set")
	scanCmd.Flags().StringVar(&scanFormat, "format", "table", "Output format: table|json|sarif")
	scanCmd.Flags().StringVar(&scanOut, "out", "", "Write the report to a file instead of stdout")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Concurrent file workers (default: CPU-bound pool)")
	scanCmd.Flags().StringVar(&scanFailOn, "fail-on", "", "Exit non-zero when a finding at or above this severity exists")
	scanCmd.Flags().Int64Var(&scanMaxFileBytes, "max-file-bytes", 0, "Maximum size of a scannable file")
	scanCmd.Flags().StringSliceVar(&scanDisableRules, "disable-rule", nil, "Rule id(s) to disable")
	scanCmd.Flags().StringSliceVar(&scanOnlyRules, "only-rule", nil, "Only run the listed rule id(s)")
	scanCmd.Flags().StringSliceVar(&scanSeverities, "severity", nil, "Only run rules with the listed severities")
	scanCmd.Flags().StringSliceVar(&scanCategories, "category", nil, "Only run rules in the listed categories")
	scanCmd.Flags().StringSliceVar(&scanLanguages, "language", nil, "Only run rules for the listed languages")
	scanCmd.Flags().StringSliceVar(&scanFrameworks, "framework", nil, "Only run rules for the listed frameworks")
	scanCmd.Flags().BoolVar(&scanWatch, "watch", false, "Keep running and rescan when a rule-set document changes")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, root string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyScanConfig(cmd, cfg)

	store := rules.NewStore(rules.Filter{
		DisabledRules: scanDisableRules,
		EnabledRules:  scanOnlyRules,
		Severities:    scanSeverities,
		Categories:    scanCategories,
		Languages:     scanLanguages,
		Frameworks:    scanFrameworks,
	})

	var warnings []string
	if !scanNoBuiltin {
		warnings = append(warnings, store.AddSet(rules.Builtin(), "builtin")...)
	}
	if len(scanRulesDirs) > 0 {
		docs, loadWarnings, err := rules.LoadDirs(scanRulesDirs)
		if err != nil {
			return err
		}
		warnings = append(warnings, loadWarnings...)
		for _, doc := range docs {
			warnings = append(warnings, store.AddSet(doc.Set, doc.Path)...)
		}
	}
	rep, err := scanOnce(cmd, store, root, warnings)
	if err != nil {
		return err
	}
	if err := emitReport(rep); err != nil {
		return err
	}
	if !scanWatch {
		return checkFailOn(rep)
	}

	if len(scanRulesDirs) == 0 {
		return fmt.Errorf("--watch needs at least one --rules-dir to watch")
	}
	logger.Infof("watching %d rules directories for changes", len(scanRulesDirs))
	err = rules.Watch(cmd.Context(), store, scanRulesDirs, func(reloadWarnings []string, reloadErr error) {
		if reloadErr != nil {
			logger.Warnw("rules reload failed", "error", reloadErr)
			return
		}
		// Load replaced the population with the on-disk documents; merge
		// the built-in set back in before rescanning.
		if !scanNoBuiltin {
			reloadWarnings = append(reloadWarnings, store.AddSet(rules.Builtin(), "builtin")...)
		}
		rep, scanErr := scanOnce(cmd, store, root, reloadWarnings)
		if scanErr != nil {
			logger.Warnw("rescan failed", "error", scanErr)
			return
		}
		if emitErr := emitReport(rep); emitErr != nil {
			logger.Warnw("report write failed", "error", emitErr)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func scanOnce(cmd *cobra.Command, store *rules.Store, root string, warnings []string) (model.ScanReport, error) {
	snapshot := store.Snapshot()
	if len(snapshot) == 0 {
		return model.ScanReport{}, fmt.Errorf("no rules to run after filtering")
	}

	files, ingestWarnings, err := ingest.Collect(root, ingest.Options{MaxFileBytes: scanMaxFileBytes})
	if err != nil {
		return model.ScanReport{}, err
	}
	warnings = append(warnings, ingestWarnings...)
	for _, w := range warnings {
		logger.Warn(w)
	}
	logger.Infof("scanning %d files with %d rules", len(files), len(snapshot))

	started := time.Now().UTC()
	scanner := engine.NewScanner(snapshot, logger)
	matches := scanner.Scan(cmd.Context(), files, engine.ScanOptions{
		Workers: scanWorkers,
		Sink:    progress.LogSink{Log: logger},
	})

	vulns := aggregate.ToVulnerabilities(matches)
	vulns = provenance.TagVulnerabilities(vulns)
	vulns = priority.Apply(vulns)

	completed := time.Now().UTC()
	firstParty, thirdParty := priority.Split(vulns)
	return model.ScanReport{
		StartedAt:        started,
		CompletedAt:      completed,
		DurationMS:       completed.Sub(started).Milliseconds(),
		RootPath:         root,
		FilesScanned:     len(files),
		RulesApplied:     scanner.RuleCount(),
		Vulnerabilities:  vulns,
		CountsBySeverity: priority.Summary(vulns),
		FirstPartyCount:  len(firstParty),
		ThirdPartyCount:  len(thirdParty),
		Warnings:         warnings,
	}, nil
}

// applyScanConfig fills in flags the user did not set from the layered
// config files. Explicit flags always win.
func applyScanConfig(cmd *cobra.Command, cfg config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("rules-dir") && len(cfg.RulesDirs) > 0 {
		scanRulesDirs = cfg.RulesDirs
	}
	if !flags.Changed("no-builtin") && cfg.NoBuiltin != nil {
		scanNoBuiltin = *cfg.NoBuiltin
	}
	if !flags.Changed("format") && cfg.Format != "" {
		scanFormat = cfg.Format
	}
	if !flags.Changed("out") && cfg.Out != "" {
		scanOut = cfg.Out
	}
	if !flags.Changed("workers") && cfg.Workers != nil {
		scanWorkers = *cfg.Workers
	}
	if !flags.Changed("fail-on") && cfg.FailOn != "" {
		scanFailOn = cfg.FailOn
	}
	if !flags.Changed("max-file-bytes") && cfg.MaxFileBytes != nil {
		scanMaxFileBytes = *cfg.MaxFileBytes
	}
	if !flags.Changed("disable-rule") && len(cfg.DisabledRules) > 0 {
		scanDisableRules = cfg.DisabledRules
	}
	if !flags.Changed("only-rule") && len(cfg.EnabledRules) > 0 {
		scanOnlyRules = cfg.EnabledRules
	}
	if !flags.Changed("severity") && len(cfg.Severities) > 0 {
		scanSeverities = cfg.Severities
	}
	if !flags.Changed("category") && len(cfg.Categories) > 0 {
		scanCategories = cfg.Categories
	}
	if !flags.Changed("language") && len(cfg.Languages) > 0 {
		scanLanguages = cfg.Languages
	}
	if !flags.Changed("framework") && len(cfg.Frameworks) > 0 {
		scanFrameworks = cfg.Frameworks
	}
}

func emitReport(rep model.ScanReport) error {
	switch strings.ToLower(scanFormat) {
	case "json":
		if scanOut != "" {
			return report.WriteJSON(scanOut, rep)
		}
		return report.WriteJSON("arcshield-report.json", rep)
	case "sarif":
		if scanOut != "" {
			return report.WriteSARIF(scanOut, rep)
		}
		return report.WriteSARIF("arcshield-report.sarif", rep)
	case "table":
		color := isatty.IsTerminal(os.Stdout.Fd())
		report.Render(os.Stdout, rep, color)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table|json|sarif)", scanFormat)
	}
}

var severityRank = map[string]int{
	model.SeverityCritical: 5,
	model.SeverityHigh:     4,
	model.SeverityMedium:   3,
	model.SeverityLow:      2,
	model.SeverityInfo:     1,
}

func checkFailOn(rep model.ScanReport) error {
	threshold, ok := severityRank[strings.ToLower(strings.TrimSpace(scanFailOn))]
	if !ok {
		return nil
	}
	for _, v := range rep.Vulnerabilities {
		if severityRank[v.Severity] >= threshold {
			return fmt.Errorf("found %s severity finding %s (fail-on=%s)", v.Severity, v.ID, scanFailOn)
		}
	}
	return nil
}
