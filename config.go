package main

import (
	"github.com/julianmb-g/coralnpu/coverage"
	"github.com/julianmb-g/coralnpu/riscv"
)

// Default configuration values.
const (
	DefaultAccounting = string(coverage.AccountingInstance)
	DefaultLogLevel   = "info"
)

// Config drives one trace-replay run: which extension channels are active,
// how their models account coverage, and where the trace comes from and the
// report goes. Everything must be settled before the first transaction is
// replayed.
type Config struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Accounting string   `json:"accounting"`
	TracePath  string   `json:"trace_path"`
	ReportPath string   `json:"report_path"`
	LogLevel   string   `json:"log_level"`
}

// CoverageConfig represents a predefined replay configuration.
type CoverageConfig struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Config      *Config `json:"-"`
}

// GetPredefinedConfigs returns all available predefined replay configurations.
func GetPredefinedConfigs() []CoverageConfig {
	return []CoverageConfig{
		{
			Name:        "all",
			Description: "All seven extension channels, instance accounting",
			Config: &Config{
				Name:       "all",
				Extensions: extensionNames(riscv.Extensions()),
				Accounting: DefaultAccounting,
				LogLevel:   DefaultLogLevel,
			},
		},
		{
			Name:        "scalar_only",
			Description: "Scalar channels only: base integer, muldiv, CSR, bitmanip, fence",
			Config: &Config{
				Name: "scalar_only",
				Extensions: extensionNames([]riscv.Extension{
					riscv.ExtRV32I, riscv.ExtRV32M, riscv.ExtZicsr, riscv.ExtZbb, riscv.ExtZifencei,
				}),
				Accounting: DefaultAccounting,
				LogLevel:   DefaultLogLevel,
			},
		},
		{
			Name:        "fence_smoke",
			Description: "Instruction-fence channel only, for collector smoke runs",
			Config: &Config{
				Name:       "fence_smoke",
				Extensions: extensionNames([]riscv.Extension{riscv.ExtZifencei}),
				Accounting: DefaultAccounting,
				LogLevel:   "debug",
			},
		},
	}
}

// GetConfigByName returns a copy of the Config for the named configuration,
// or nil if it is not found.
func GetConfigByName(name string) *Config {
	for _, cfg := range GetPredefinedConfigs() {
		if cfg.Name != name {
			continue
		}
		if cfg.Config == nil {
			return nil
		}
		cfgCopy := *cfg.Config
		cfgCopy.Extensions = append([]string(nil), cfg.Config.Extensions...)
		return &cfgCopy
	}
	return nil
}

func extensionNames(exts []riscv.Extension) []string {
	names := make([]string, len(exts))
	for i, ext := range exts {
		names[i] = string(ext)
	}
	return names
}
