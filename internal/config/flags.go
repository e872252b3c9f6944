package config

import (
	"flag"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/oxhq/semverlint/internal/lint"
)

// BuildRunConfigFromFlags parses `semverlint run`'s flags on top of the
// env-derived defaults, mirroring the teacher's BuildConfigFromFlags:
// define flags, parse, then validate/finish the config in one pass.
func BuildRunConfigFromFlags(base *Config, args []string) (*Config, error) {
	fs := pflag.NewFlagSet("semverlint run", pflag.ContinueOnError)
	fs.Usage = func() { PrintUsage(fs) }

	baseline := fs.String("baseline", base.BaselinePath, "Path to the baseline snapshot JSON file. Omit to run without a baseline.")
	current := fs.StringP("current", "c", base.CurrentPath, "Path to the current snapshot JSON file. (Required)")
	lintsGlob := fs.String("lints", base.LintsGlob, "Doublestar glob matching lint definition files.")
	dsn := fs.String("db", base.DatabaseDSN, "Run-history database DSN (sqlite file path, libsql:// URL, or postgres:// URL).")
	failOn := fs.String("fail-on", base.FailOn.String(), "Minimum required_update that makes the run exit non-zero (Patch, Minor, Major).")
	jsonOut := fs.BoolP("json", "j", base.JSONOutput, "Emit findings as JSON Lines instead of colored text.")
	debug := fs.Bool("debug", base.Debug, "Enable verbose database/query logging.")
	concurrency := fs.Int("concurrency", base.Concurrency, "Number of lints to evaluate concurrently, 0 means one worker per lint.")
	fs.BoolP("help", "h", false, "Show this help message and exit.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.Changed("help") {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	if *current == "" {
		return nil, fmt.Errorf("--current is required")
	}

	update, ok := lint.ParseRequiredUpdate(*failOn)
	if !ok {
		return nil, fmt.Errorf("--fail-on must be one of Patch, Minor, Major, got %q", *failOn)
	}

	return &Config{
		BaselinePath: *baseline,
		CurrentPath:  *current,
		LintsGlob:    *lintsGlob,
		DatabaseDSN:  *dsn,
		Debug:        *debug,
		JSONOutput:   *jsonOut,
		Concurrency:  *concurrency,
		FailOn:       update,
	}, nil
}

// PrintUsage prints the flag set's usage to stdout, matching the
// teacher's PrintUsage entry point referenced from fs.Usage.
func PrintUsage(fs *pflag.FlagSet) {
	fmt.Println("Usage: semverlint run --current <snapshot.json> [flags]")
	fmt.Println(fs.FlagUsages())
}
