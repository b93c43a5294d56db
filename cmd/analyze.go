package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/imagelens/internal/analysis"
	"github.com/lehigh-university-libraries/imagelens/internal/media"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		prompt string
		urls   []string
	)

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Ask a single question about local or remote images",
		Example: `  # Describe a local photo
  imagelens analyze --prompt "What is in this picture?" photo.jpg

  # Compare a local file with a remote image
  imagelens analyze --prompt "Are these the same building?" local.png --url https://example.com/b.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := analysis.ValidatePrompt(prompt); err != nil {
				return err
			}
			if len(args) == 0 && len(urls) == 0 {
				return errors.New("provide at least one image file or --url")
			}

			service, normalizer, err := a.newService()
			if err != nil {
				return err
			}

			var items []media.Item
			if len(args) > 0 {
				uploads, err := readFiles(args)
				if err != nil {
					return err
				}
				fileItems, err := normalizer.FromUploads(uploads)
				if err != nil {
					return err
				}
				items = append(items, fileItems...)
			}
			if len(urls) > 0 {
				urlItems, err := normalizer.FromURLs(cmd.Context(), urls)
				if err != nil {
					return err
				}
				items = append(items, urlItems...)
			}

			resp, err := service.Analyze(cmd.Context(), prompt, items)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Response)
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Question to ask about the images (required)")
	cmd.Flags().StringArrayVar(&urls, "url", nil, "Image URL to include (repeatable)")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

// readFiles loads local images the same way uploads arrive over HTTP,
// sniffing the content type from the file contents.
func readFiles(paths []string) ([]media.Upload, error) {
	uploads := make([]media.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read image file: %w", err)
		}
		uploads = append(uploads, media.Upload{
			Filename:    filepath.Base(p),
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}
	return uploads, nil
}
