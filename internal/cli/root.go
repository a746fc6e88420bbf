// Package cli implements the ontomap command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ontomap/internal/config"
	"ontomap/internal/engine"
	"ontomap/pkg/logger"
)

// ExitError carries a process exit status for a command that completed but
// must signal failure, such as check finding hard errors.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// RootOptions are the global flags.
type RootOptions struct {
	ConfigPath  string
	CatalogPath string
	Debug       bool
	JSON        bool
}

type app struct {
	opts   *RootOptions
	cfg    *config.AppConfig
	engine *engine.Engine
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{opts: &RootOptions{}}

	rootCmd := &cobra.Command{
		Use:   "ontomap",
		Short: "ontomap - map manufacturing ERP exports onto the work order ontology",
		Long: `ontomap analyzes CSV and Excel exports from ERP/MES systems, suggests how
their columns map onto the work order ontology, and checks operator-reviewed
mapping profiles before rows are handed to the loader.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { logger.Close() },
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.ConfigPath, "config", "c", "", "Path to config file (default ontomap.toml)")
	flags.StringVar(&a.opts.CatalogPath, "catalog", "", "Path to an ontology catalog YAML replacing the built-in one")
	flags.BoolVar(&a.opts.Debug, "debug", false, "Enable debug logging and dump intermediate results")
	flags.BoolVar(&a.opts.JSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newCheckCmd(a),
		newPreviewRuleCmd(a),
		newNormalizeCmd(a),
		newCatalogCmd(a),
		newServeCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}

	if a.opts.CatalogPath != "" {
		cfg.Engine.CatalogPath = a.opts.CatalogPath
	}

	if a.opts.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(cfg.Log.File, cfg.Log.Debug); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	catalog, synonyms, err := cfg.LoadOntology()
	if err != nil {
		return err
	}

	logger.Debug("catalog %s: %d properties", catalog.Version, len(catalog.Properties()))

	a.cfg = cfg
	a.engine = engine.New(catalog, synonyms)

	return nil
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := NewRootCmd().Execute()
	if err == nil {
		return 0
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}

	return 1
}
