package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/singlekey/config"
	"github.com/s0up4200/singlekey/singlekey"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// skipInit marks commands that run without configuration or a client
const skipInit = "skip-init"

// SetVersion records the build version reported by the version and update commands
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// clientFactory builds the API client from the loaded configuration
type clientFactory func(cfg *config.Config, logger zerolog.Logger) (singlekey.API, error)

// app holds the state shared by all commands of one invocation
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  singlekey.API

	newClient clientFactory
}

func newSingleKeyClient(cfg *config.Config, logger zerolog.Logger) (singlekey.API, error) {
	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	return singlekey.NewClient(cfg.APIToken, logger, opts...)
}

// newRootCmd builds the command tree
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "singlekey",
		Short: "Order and track SingleKey tenant screenings",
		Long: `singlekey is a CLI for the SingleKey tenant-screening API. It creates
screenings and tenant form requests, fetches reports and applicant data,
waits for pending reports and downloads finished reports as PDF.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(
		newScreenCmd(a),
		newFormCmd(a),
		newValidateCmd(a),
		newReportCmd(a),
		newApplicantCmd(a),
		newWaitCmd(a),
		newDownloadCmd(a),
		newVersionCmd(),
		newUpdateCmd(),
	)

	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	a := &app{newClient: newSingleKeyClient}
	if err := newRootCmd(a).Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// initialize loads configuration and builds the client
func (a *app) initialize(cmd *cobra.Command, args []string) error {
	if _, ok := cmd.Annotations[skipInit]; ok {
		return nil
	}

	// Load configuration
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	// Setup logger
	a.logger = setupLogger(cfg.Logging, os.Stderr)

	for _, warning := range cfg.Warnings() {
		a.logger.Debug().Msg(warning)
	}

	// Create SingleKey client
	client, err := a.newClient(cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create SingleKey client: %w", err)
	}
	a.client = client

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
