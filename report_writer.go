package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/julianmb-g/coralnpu/collector"
	"github.com/julianmb-g/coralnpu/coverage"
)

// RenderReport writes the human-readable coverage summary: per extension,
// every point with its bin hits and out-of-bin observations, every cross
// with realized-vs-declared combinations, and the aggregate scores.
func RenderReport(w io.Writer, rep collector.Report) error {
	for _, model := range rep.Models {
		if err := renderModel(w, model); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "TOTAL coverage: %.2f%%\n", rep.Score*100)
	return err
}

func renderModel(w io.Writer, m coverage.ModelReport) error {
	if _, err := fmt.Fprintf(w, "=== %s (%.2f%%, %s accounting) ===\n", m.Name, m.Score*100, m.Accounting); err != nil {
		return err
	}
	for _, p := range m.Points {
		hit := 0
		for _, b := range p.Bins {
			if b.Count > 0 {
				hit++
			}
		}
		if _, err := fmt.Fprintf(w, "  %-14s %6.2f%%  bins %d/%d  samples %d  out-of-bin %d\n",
			p.Name, p.Score*100, hit, len(p.Bins), p.Samples, p.OutOfBin); err != nil {
			return err
		}
		for _, b := range p.Bins {
			if b.Count == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "      %-12s %d\n", b.Name, b.Count); err != nil {
				return err
			}
		}
	}
	for _, c := range m.Crosses {
		if _, err := fmt.Fprintf(w, "  %-14s %6.2f%%  combos %d/%d  samples %d  missed %d\n",
			c.Name, c.Score*100, c.Hit, c.Declared, c.Samples, c.Missed); err != nil {
			return err
		}
	}
	return nil
}

// WriteReportJSON dumps the machine-readable report for downstream tooling.
func WriteReportJSON(fsys afero.Fs, path string, rep collector.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := afero.WriteFile(fsys, path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
