package main

import (
	"errors"
	"fmt"

	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// ValidateConfig applies structural checks to Config and populates defaults
// where required. It fails fast: a config that passes here can be handed to
// the collector and replayer without further checks.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = extensionNames(riscv.Extensions())
	}
	seen := make(map[string]bool, len(cfg.Extensions))
	for _, name := range cfg.Extensions {
		if _, err := riscv.ParseExtension(name); err != nil {
			return fmt.Errorf("Extensions: %w", err)
		}
		if seen[name] {
			return fmt.Errorf("Extensions: %s listed twice", name)
		}
		seen[name] = true
	}

	if cfg.Accounting == "" {
		cfg.Accounting = DefaultAccounting
	}
	switch coverage.Accounting(cfg.Accounting) {
	case coverage.AccountingInstance, coverage.AccountingMerged:
	default:
		return fmt.Errorf("Accounting must be %q or %q, got %q",
			coverage.AccountingInstance, coverage.AccountingMerged, cfg.Accounting)
	}

	if cfg.TracePath == "" {
		return errors.New("TracePath cannot be empty")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}

// ActiveExtensions converts the validated extension names into their typed
// form.
func (cfg *Config) ActiveExtensions() []riscv.Extension {
	exts := make([]riscv.Extension, 0, len(cfg.Extensions))
	for _, name := range cfg.Extensions {
		ext, err := riscv.ParseExtension(name)
		if err != nil {
			continue // unreachable after ValidateConfig
		}
		exts = append(exts, ext)
	}
	return exts
}

func parseLogLevel(s string) (LogLevel, error) {
	switch s {
	case "error":
		return LogLevelError, nil
	case "warn":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return 0, fmt.Errorf("LogLevel must be error, warn, info or debug, got %q", s)
	}
}
