// Package main provides the aifr binary entry point. aifr validates
// user-submitted AI flaw reports, resolves the referenced systems against a
// knowledge base, and emits JSON-LD documents suitable for publication.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "aifr"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     appName,
		Short:   "AI flaw report pipeline",
		Long:    "Validates AI flaw reports, resolves referenced systems against the knowledge base, and emits JSON-LD documents.",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default: layered aifr.yaml lookup)")
	cmd.PersistentFlags().String("kb", "", "knowledge base directory (overrides config)")

	cmd.AddCommand(processCmd())
	cmd.AddCommand(systemsCmd())
	cmd.AddCommand(serveCmd())
	return cmd
}
