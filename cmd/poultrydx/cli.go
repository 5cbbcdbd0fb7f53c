package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"poultrydx/internal/diagnosis"
	"poultrydx/internal/httpapi"
	"poultrydx/internal/render"
	"poultrydx/internal/submit"
	"poultrydx/pkg/types"
)

// newRootCmd constructs the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "poultrydx",
		Short:         "Poultry symptom checker backed by a diagnosis webhook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (.yaml/.yml/.json/.toml); defaults to POULTRYDX_CONFIG")
	root.PersistentFlags().String("webhook-url", "", "Production webhook URL (defaults POULTRYDX_WEBHOOK_URL)")
	root.PersistentFlags().Duration("timeout", 60*time.Second, "Webhook request timeout")
	root.PersistentFlags().String("log-level", "info", "Log level: debug|info|warn|error (defaults POULTRYDX_LOG_LEVEL or info)")

	root.AddCommand(newServeCmd(), newDiagnoseCmd(), newVersionCmd())

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	root.AddCommand(completionCmd)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{Use: "version", Short: "Print the version", RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
		return err
	}}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the symptom form and JSON API",
		Example: "  poultrydx serve --addr :8080 --webhook-url https://me.app.n8n.cloud/webhook/poultry-dx",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, os.Stderr, false)
			installLogger(logger)

			svc := newSubmitter(cfg)
			if err := svc.Ready(); err != nil {
				// the form still starts and shows the configuration hint
				logger.Warn().Err(err).Msg("webhook not configured; submissions will be rejected")
			}

			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
			httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins)
			httpapi.SetDefaultRequestLogLevel(requestLogDefault(cfg.LogLevel))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			httpapi.SetBaseContext(ctx)

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(svc),
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      cfg.RequestTimeout() + 15*time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", cfg.Addr).Str("webhook", cfg.WebhookURL).Msg("poultrydx listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	cmd.Flags().String("addr", ":8080", "HTTP listen address (defaults POULTRYDX_ADDR or :8080)")
	return cmd
}

func newDiagnoseCmd() *cobra.Command {
	var (
		species  string
		ageWeeks int
		symptoms string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:     "diagnose",
		Short:   "Submit one set of symptoms and print the result",
		Example: "  poultrydx diagnose --species duck --age-weeks 6 --symptoms \"coughing, watery diarrhea\"",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			installLogger(newLogger(cfg, cmd.ErrOrStderr(), true))

			if !asJSON {
				fmt.Fprintln(cmd.ErrOrStderr(), diagnosis.ProgressText)
			}
			out := newSubmitter(cfg).Submit(cmd.Context(), submit.Input{
				Species:  species,
				AgeWeeks: ageWeeks,
				Symptoms: symptoms,
			})
			w := cmd.OutOrStdout()
			if out.Err != nil {
				if asJSON {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					_ = enc.Encode(types.ErrorResponse{Error: out.Err.Error(), Code: exitStatus(out.Err)})
				} else {
					_ = render.Error(w, out.Err)
				}
				return out.Err
			}
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(types.DiagnoseResponse{ID: out.ID, State: out.State.String(), Response: *out.Response, View: *out.View})
			}
			return render.Text(w, *out.View)
		},
	}
	cmd.Flags().StringVar(&species, "species", string(types.SpeciesChicken), "Species: chicken|duck|turkey|quail")
	cmd.Flags().IntVar(&ageWeeks, "age-weeks", 10, "Age in weeks (>= 0)")
	cmd.Flags().StringVar(&symptoms, "symptoms", "coughing, watery diarrhea", "Symptoms (comma-separated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the interpreted response as JSON")
	return cmd
}

func exitStatus(err error) int {
	type statusCoder interface{ StatusCode() int }
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// requestLogDefault maps the process log level onto per-request logging.
func requestLogDefault(level string) string {
	switch level {
	case "debug", "trace":
		return "debug"
	case "error", "fatal", "panic":
		return "error"
	case "disabled":
		return "off"
	default:
		return "info"
	}
}
