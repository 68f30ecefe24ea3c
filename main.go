package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/julianmb-g/coralnpu/collector"
	"github.com/julianmb-g/coralnpu/coverage"
)

func main() {
	var trace = flag.String("trace", "", "Path to the JSON-lines instruction trace to replay")
	var report = flag.String("report", "", "Optional path for the JSON coverage report")
	var configName = flag.String("config", "", "Predefined configuration name (e.g. 'all', 'scalar_only', 'fence_smoke')")
	var extensions = flag.String("extensions", "", "Comma-separated extension list overriding the configuration")
	var accounting = flag.String("accounting", "", "Coverage accounting mode: instance or merged")
	var keepGoing = flag.Bool("keep-going", false, "Skip malformed trace records instead of stopping")
	var verbose = flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if err := run(*trace, *report, *configName, *extensions, *accounting, *keepGoing, *verbose); err != nil {
		GetLogger().Errorf("%v", err)
		os.Exit(1)
	}
}

func run(trace, report, configName, extensions, accounting string, keepGoing, verbose bool) error {
	var cfg *Config
	if configName != "" {
		cfg = GetConfigByName(configName)
		if cfg == nil {
			return fmt.Errorf("configuration %q not found", configName)
		}
	} else {
		cfg = GetConfigByName("all")
	}

	if trace != "" {
		cfg.TracePath = trace
	}
	if report != "" {
		cfg.ReportPath = report
	}
	if extensions != "" {
		cfg.Extensions = strings.Split(extensions, ",")
	}
	if accounting != "" {
		cfg.Accounting = accounting
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := parseLogLevel(cfg.LogLevel)
	GetLogger().SetLevel(level)

	coll, err := collector.New(
		collector.WithExtensions(cfg.ActiveExtensions()...),
		collector.WithAccounting(coverage.Accounting(cfg.Accounting)),
	)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	GetLogger().Infof("Replaying %s across %d extension channels", cfg.TracePath, len(cfg.Extensions))
	stats, err := ReplayTrace(fsys, cfg.TracePath, coll, keepGoing)
	if err != nil {
		return err
	}
	GetLogger().Infof("Replayed %d records: %d sampled, %d rejected", stats.Lines, stats.Samples, stats.Rejected)

	rep := coll.Report()
	if err := RenderReport(os.Stdout, rep); err != nil {
		return err
	}
	if cfg.ReportPath != "" {
		if err := WriteReportJSON(fsys, cfg.ReportPath, rep); err != nil {
			return err
		}
		GetLogger().Infof("Coverage report written to %s", cfg.ReportPath)
	}
	return nil
}
