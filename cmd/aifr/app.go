package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/kepae/aifr-jsonld-example/config"
	"github.com/kepae/aifr-jsonld-example/graph"
	"github.com/kepae/aifr-jsonld-example/jsonld"
	"github.com/kepae/aifr-jsonld-example/kb"
	"github.com/kepae/aifr-jsonld-example/report"
	"github.com/kepae/aifr-jsonld-example/server"
)

// loadConfig resolves the effective configuration from the layered loader
// plus command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
		if err == nil {
			err = cfg.Validate()
		}
	} else {
		cfg, err = config.NewLoader(slog.Default()).Load()
	}
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("kb"); dir != "" {
		cfg.KB.Path = dir
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*kb.Store, error) {
	return kb.Open(cfg.KB.Path, cfg.KB.SystemsGlob, cfg.KB.OrganizationsGlob, slog.Default())
}

// ----------------------------------------------------------------------------
// aifr process
// ----------------------------------------------------------------------------

func processCmd() *cobra.Command {
	var showEnriched bool

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Run one raw flaw report through the pipeline",
		Long:  "Reads a raw form payload (JSON) from the given file or stdin, validates and resolves it, and prints the JSON-LD document.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			var data []byte
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read report payload: %w", err)
			}

			raw, err := report.Decode(data)
			if err != nil {
				var valErr *report.ValidationError
				if errors.As(err, &valErr) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Report validation failed:")
					for _, v := range valErr.Violations {
						fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", v)
					}
				}
				return err
			}

			ix := store.Index()
			enriched, err := report.NewResolver(cfg.Report.BaseURI, slog.Default()).Resolve(raw, ix)
			if err != nil {
				return err
			}

			if showEnriched {
				fmt.Fprintf(cmd.ErrOrStderr(), "Report %s: %d system(s) resolved\n", enriched.ID, len(enriched.Systems))
			}

			doc, err := jsonld.NewSerializer(cfg.Report.BaseURI).Serialize(enriched, ix)
			if err != nil {
				return err
			}

			out, err := doc.Bytes()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showEnriched, "enriched", false, "print a resolution summary to stderr")
	return cmd
}

// ----------------------------------------------------------------------------
// aifr systems
// ----------------------------------------------------------------------------

func systemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List known AI systems",
		Long:  "Prints the slug and display name of every AI system in the knowledge base, as shown in the report form dropdown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			for _, option := range store.Index().SystemOptions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", option.Slug, option.DisplayName)
			}
			return nil
		},
	}
}

// ----------------------------------------------------------------------------
// aifr serve
// ----------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report submission API",
		Long:  "Starts the HTTP front end: report submission, system dropdown, health, and metrics endpoints.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.KB.Watch {
				go func() {
					if err := store.Watch(ctx, cfg.KB.DebounceDelay); err != nil && !errors.Is(err, context.Canceled) {
						slog.Error("knowledge base watcher stopped", slog.String("error", err.Error()))
					}
				}()
			}

			var nc *nats.Conn
			if cfg.NATS.URL != "" {
				nc, err = nats.Connect(cfg.NATS.URL, nats.Name(appName))
				if err != nil {
					return fmt.Errorf("connect to NATS: %w", err)
				}
				defer func() { _ = nc.Drain() }()
				slog.Info("publishing report documents", slog.String("url", cfg.NATS.URL), slog.String("subject", cfg.NATS.Subject))
			}

			srv := server.New(
				store,
				report.NewResolver(cfg.Report.BaseURI, slog.Default()),
				jsonld.NewSerializer(cfg.Report.BaseURI),
				graph.NewPublisher(nc, cfg.NATS.Subject, slog.Default()),
				server.NewMetrics(),
				slog.Default(),
			)

			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", slog.String("addr", cfg.Server.Addr))
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
