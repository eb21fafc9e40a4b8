package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/reqmatch/pkg/config"
	"github.com/getmockd/reqmatch/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
)

// errSilent marks an error whose details were already printed.
var errSilent = errors.New("silent")

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	logLevel   string
	logFormat  string
	logFile    string
	jsonOutput bool
}

// NewRootCommand builds the reqmatch command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "reqmatch",
		Short: "reqmatch routes HTTP requests to declarative expectations",
		Long: `reqmatch loads expectation files and decides which expectation an HTTP
request matches. When nothing matches it reports the closest candidates.

Expectation files are YAML or JSON. Pass them with -f (repeatable, globs
allowed) or set REQMATCH_EXPECTATIONS to a comma-separated list.`,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (env "+logging.EnvLevel+")")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: text or json (env "+logging.EnvFormat+")")
	pf.StringVar(&g.logFile, "log-file", "", "Also write JSON logs to this file")
	pf.BoolVar(&g.jsonOutput, "json", false, "Output command results in JSON format")

	root.AddCommand(
		newValidateCommand(g),
		newMatchCommand(g),
		newServeCommand(g),
	)
	return root
}

// logger builds the command logger from flags and environment. Flags win
// over REQMATCH_LOG_LEVEL and REQMATCH_LOG_FORMAT; defaultLevel applies
// when neither is set. The returned func closes the log file, if any.
func (g *globalFlags) logger(cmd *cobra.Command, defaultLevel logging.Level) (*slog.Logger, func(), error) {
	cfg := logging.FromEnv(os.Getenv)
	if os.Getenv(logging.EnvLevel) == "" {
		cfg.Level = defaultLevel
	}
	if g.logLevel != "" {
		cfg.Level = logging.ParseLevel(g.logLevel)
	}
	if g.logFormat != "" {
		cfg.Format = logging.ParseFormat(g.logFormat)
	}
	cfg.Output = cmd.ErrOrStderr()

	if g.logFile == "" {
		return logging.New(cfg), func() {}, nil
	}

	f, err := os.OpenFile(g.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	fileCfg := cfg
	fileCfg.Format = logging.FormatJSON
	fileCfg.Output = f
	return logging.NewMulti(cfg, fileCfg), func() { _ = f.Close() }, nil
}

// patterns returns the -f values, or REQMATCH_EXPECTATIONS when none were given.
func patterns(files []string) ([]string, error) {
	if len(files) > 0 {
		return files, nil
	}
	if env := config.PatternsFromEnv(os.Getenv); len(env) > 0 {
		return env, nil
	}
	return nil, fmt.Errorf("no expectation files given: use -f or set %s", config.EnvExpectations)
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// Execute runs the CLI and exits with its status.
func Execute() {
	os.Exit(Main())
}
