package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReportConfig records how a batch was run
type ReportConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	Dataset     string  `yaml:"dataset"`
	Concurrency int     `yaml:"concurrency"`
	Timestamp   string  `yaml:"timestamp"`
}

type Summary struct {
	Total     int `yaml:"total"`
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
}

// Report is the document written to the results file
type Report struct {
	Config  ReportConfig `yaml:"config"`
	Summary Summary      `yaml:"summary"`
	Results []Result     `yaml:"results"`
}

func NewReport(config ReportConfig, results []Result) Report {
	if config.Timestamp == "" {
		config.Timestamp = time.Now().Format(time.RFC3339)
	}

	summary := Summary{Total: len(results)}
	for _, r := range results {
		if r.Error != "" {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	return Report{Config: config, Summary: summary, Results: results}
}

// SaveYAML writes the report to path, creating parent directories
func SaveYAML(path string, report Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}
