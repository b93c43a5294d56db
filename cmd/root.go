package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/imagelens/internal/analysis"
	"github.com/lehigh-university-libraries/imagelens/internal/config"
	"github.com/lehigh-university-libraries/imagelens/internal/media"
	"github.com/lehigh-university-libraries/imagelens/internal/providers/factory"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand once flags are parsed
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "imagelens",
		Short: "Ask multimodal LLMs questions about images",
		Long: `imagelens accepts images from a bundled image library, file uploads,
URLs or Base64 payloads together with a prompt, and forwards them to a
vision-capable LLM (Ollama, OpenAI, Gemini or Anthropic).

It runs as an HTTP service or as a one-shot and batch CLI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file (default $IMAGELENS_CONFIG)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newAnalyzeCmd(a))
	cmd.AddCommand(newBatchCmd(a))

	return cmd
}

func (a *app) load() error {
	path := a.configPath
	if path == "" {
		path = os.Getenv("IMAGELENS_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return nil
}

// newService wires the configured provider, image library and URL fetcher
func (a *app) newService() (*analysis.Service, *media.Normalizer, error) {
	provider, err := factory.New(a.cfg)
	if err != nil {
		return nil, nil, err
	}

	fetcher := media.NewFetcher(a.cfg.Fetch.ConnectTimeout, a.cfg.Fetch.ReadTimeout)
	normalizer := media.NewNormalizer(os.DirFS(a.cfg.ImagesDir), a.cfg.ImagesDir, fetcher)
	model := a.cfg.ModelName()

	slog.Debug("Analysis service configured",
		"provider", a.cfg.Provider,
		"model", model,
		"images_dir", a.cfg.ImagesDir)

	return analysis.NewService(normalizer, provider, model, a.cfg.Temperature), normalizer, nil
}
