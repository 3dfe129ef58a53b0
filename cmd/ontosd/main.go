// Command ontosd is a thin CLI wiring cobra commands over the knowledge
// service.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/logos-system/ontos/internal/auth"
	"github.com/logos-system/ontos/internal/config"
	"github.com/logos-system/ontos/internal/knowledge"
	"github.com/logos-system/ontos/internal/logging"
)

var (
	configPath string
	tokenTTL   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ontosd",
	Short: "ontos - ontological knowledge engine CLI",
	Long: `ontosd opens a knowledge service over a config file and exercises
its create/nearest/decompose operations from the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getwd: %w", err)
		}
		if err := logging.Initialize(ws, logging.LoadFromConfig(false, nil, "info", false)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (defaults baked in if absent)")
	rootCmd.PersistentFlags().DurationVar(&tokenTTL, "token-ttl", time.Hour, "lifetime of the ephemeral capability token issued for this invocation")

	rootCmd.AddCommand(createCmd, nearestCmd, decomposeCmd)
}

func openService() (*knowledge.Service, auth.Token, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, auth.Token{}, fmt.Errorf("load config: %w", err)
	}
	svc, err := knowledge.Open(context.Background(), cfg)
	if err != nil {
		return nil, auth.Token{}, fmt.Errorf("open knowledge service: %w", err)
	}
	return svc, auth.NewToken(tokenTTL), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
