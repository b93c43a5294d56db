package batch

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Job is one analysis request in a batch dataset. A job names either a
// library image or a list of image URLs.
type Job struct {
	ID        string   `json:"id" parquet:"id"`
	Prompt    string   `json:"prompt" parquet:"prompt"`
	FileName  string   `json:"file_name,omitempty" parquet:"file_name,optional"`
	ImageURLs []string `json:"image_urls,omitempty" parquet:"image_urls,list"`
}

// LoadJobs reads jobs from a JSONL or Parquet file
func LoadJobs(path string) ([]Job, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".parquet":
		return loadParquet(path)
	case ".jsonl", ".json":
		return loadJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func loadJSONL(path string) ([]Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var jobs []Job
	scanner := bufio.NewScanner(file)
	const maxCapacity = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(line), &job); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		if job.ID == "" {
			job.ID = fmt.Sprintf("line-%d", lineNum)
		}
		jobs = append(jobs, job)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "path", path, "jobs", len(jobs))
	return jobs, nil
}

func loadParquet(path string) ([]Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Job](pf)
	defer reader.Close()

	jobs := make([]Job, 0, pf.NumRows())
	rows := make([]Job, 128)
	for {
		n, err := reader.Read(rows)
		jobs = append(jobs, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	for i := range jobs {
		if jobs[i].ID == "" {
			jobs[i].ID = fmt.Sprintf("row-%d", i+1)
		}
	}

	slog.Debug("Finished reading Parquet file", "path", path, "jobs", len(jobs), "row_groups", len(pf.RowGroups()))
	return jobs, nil
}
