package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/imagelens/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the image analysis HTTP API",
		Long: `Starts the image analysis API on the configured port.

Endpoints (under the configured base path, default /api/v1/image/analysis):
  POST /from-classpath  analyze an image from the image library
  POST /from-files      analyze uploaded images (multipart "images" + "prompt")
  POST /from-urls       analyze images at the given URLs
  POST /from-base64     analyze Base64 encoded images`,
		Example: `  # Start server on default port 8888
  imagelens serve

  # Start server on custom port with Gemini
  IMAGE_ANALYSIS_PROVIDER=gemini imagelens serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			service, _, err := a.newService()
			if err != nil {
				return err
			}
			handler := handlers.New(service, a.cfg.MaxUploadBytes)

			addr := ":" + a.cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(a.cfg.BasePath),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Image analysis API available",
					"addr", addr,
					"url", "http://localhost"+addr+a.cfg.BasePath,
					"provider", a.cfg.Provider,
					"model", a.cfg.ModelName())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (overrides config)")

	return cmd
}
