package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/imagelens/internal/models"
)

// Analyzer is the part of analysis.Service the runner needs
type Analyzer interface {
	AnalyzeFromLibrary(ctx context.Context, fileName, prompt string) (*models.AnalysisResponse, error)
	AnalyzeURLs(ctx context.Context, urls []string, prompt string) (*models.AnalysisResponse, error)
}

// Result is the outcome of a single job
type Result struct {
	ID         string   `yaml:"id"`
	Prompt     string   `yaml:"prompt"`
	FileName   string   `yaml:"file_name,omitempty"`
	ImageURLs  []string `yaml:"image_urls,omitempty"`
	Response   string   `yaml:"response,omitempty"`
	Error      string   `yaml:"error,omitempty"`
	DurationMS int64    `yaml:"duration_ms"`
}

// Runner executes jobs with bounded concurrency
type Runner struct {
	analyzer    Analyzer
	concurrency int
}

func NewRunner(analyzer Analyzer, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{analyzer: analyzer, concurrency: concurrency}
}

// Run processes every job and returns results in job order. A failing job
// does not stop the others.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.concurrency)

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			results[idx] = r.runJob(ctx, job)
			slog.Info("Job finished",
				"id", job.ID,
				"progress", idx+1,
				"total", len(jobs),
				"failed", results[idx].Error != "")
		}(i, job)
	}

	wg.Wait()
	return results
}

func (r *Runner) runJob(ctx context.Context, job Job) Result {
	result := Result{
		ID:        job.ID,
		Prompt:    job.Prompt,
		FileName:  job.FileName,
		ImageURLs: job.ImageURLs,
	}

	start := time.Now()
	var (
		resp *models.AnalysisResponse
		err  error
	)
	if job.FileName != "" {
		resp, err = r.analyzer.AnalyzeFromLibrary(ctx, job.FileName, job.Prompt)
	} else {
		resp, err = r.analyzer.AnalyzeURLs(ctx, job.ImageURLs, job.Prompt)
	}
	result.DurationMS = time.Since(start).Milliseconds()

	if err != nil {
		result.Error = models.Message(err)
		return result
	}
	result.Response = resp.Response
	return result
}
