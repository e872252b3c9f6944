// Command semverlint compares two API-documentation snapshots and
// reports the SemVer-breaking changes between them, the way the demo
// CLI wires providers and a cobra command tree together, adapted here
// to the lint engine instead of AST transformations.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxhq/semverlint/internal/config"
	"github.com/oxhq/semverlint/internal/diff"
	"github.com/oxhq/semverlint/internal/lint"
	"github.com/oxhq/semverlint/internal/report"
	"github.com/oxhq/semverlint/internal/snapshot"
	"github.com/oxhq/semverlint/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "semverlint",
		Short: "SemVer breaking-change lint engine for API documentation snapshots",
		Long:  "Compares a baseline and current API-documentation snapshot and reports the breaking changes between them.",
	}

	rootCmd.AddCommand(newRunCmd(), newLintsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunCmd disables cobra's own flag parsing for this subcommand:
// config.BuildRunConfigFromFlags owns the run flags via pflag directly,
// the same division the deleted teacher cli.go drew between cobra-style
// command dispatch and a standalone flag-to-Config builder.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the lint catalogue against a baseline and current snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	cmd.DisableFlagParsing = true
	return cmd
}

func runRun(args []string) error {
	base := config.LoadEnvDefaults()
	cfg, err := config.BuildRunConfigFromFlags(base, args)
	if err != nil {
		return err
	}

	var baselineSnap *snapshot.Snapshot
	if cfg.BaselinePath != "" {
		data, err := os.ReadFile(cfg.BaselinePath)
		if err != nil {
			return fmt.Errorf("failed to read baseline snapshot: %w", err)
		}
		baselineSnap, err = snapshot.Load(cfg.BaselinePath, data)
		if err != nil {
			return fmt.Errorf("failed to load baseline snapshot: %w", err)
		}
	}

	currentData, err := os.ReadFile(cfg.CurrentPath)
	if err != nil {
		return fmt.Errorf("failed to read current snapshot: %w", err)
	}
	currentSnap, err := snapshot.Load(cfg.CurrentPath, currentData)
	if err != nil {
		return fmt.Errorf("failed to load current snapshot: %w", err)
	}

	root, err := diff.NewRoot(baselineSnap, currentSnap)
	if err != nil {
		return fmt.Errorf("failed to build diff root: %w", err)
	}

	lints, err := lint.Load(cfg.LintsGlob)
	if err != nil {
		return fmt.Errorf("failed to load lints: %w", err)
	}

	started := time.Now()
	findings, summary, err := lint.Run(lints, root, cfg.Concurrency)
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}
	finished := time.Now()

	if cfg.JSONOutput {
		if err := report.WriteJSONLines(os.Stdout, findings); err != nil {
			return err
		}
	} else {
		report.WriteText(os.Stdout, findings, summary)
	}

	if cfg.DatabaseDSN != "" {
		db, err := store.Connect(cfg.DatabaseDSN, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open run-history database: %v\n", err)
		} else {
			baselineVersion := ""
			if baselineSnap != nil {
				baselineVersion = baselineSnap.Root().CrateVersion
			}
			if _, err := store.RecordRun(db, baselineVersion, currentSnap.Root().CrateVersion, findings, summary, started, finished); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not record run history: %v\n", err)
			}
		}
	}

	if report.ExceedsThreshold(summary, cfg.FailOn) {
		os.Exit(1)
	}
	return nil
}

func newLintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lints",
		Short: "Inspect the lint catalogue",
	}
	cmd.AddCommand(newLintsListCmd(), newLintsValidateCmd())
	return cmd
}

func newLintsListCmd() *cobra.Command {
	var glob string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every lint discovered by the glob",
		RunE: func(cmd *cobra.Command, args []string) error {
			lints, err := lint.Load(glob)
			if err != nil {
				return err
			}
			for _, l := range lints {
				fmt.Printf("%s\t%s\t%s\n", l.ID, l.RequiredUpdate, l.HumanReadableName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&glob, "lints", "lints/**/*.yaml", "Doublestar glob matching lint definition files.")
	return cmd
}

func newLintsValidateCmd() *cobra.Command {
	var glob string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse and compile every lint without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			lints, err := lint.Load(glob)
			if err != nil {
				return err
			}
			fmt.Printf("%d lint(s) parsed and compiled successfully\n", len(lints))
			return nil
		},
	}
	cmd.Flags().StringVar(&glob, "lints", "lints/**/*.yaml", "Doublestar glob matching lint definition files.")
	return cmd
}
