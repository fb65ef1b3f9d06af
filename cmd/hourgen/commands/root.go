package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/hourgen/config"
	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/logger"
)

// Flags bound into configuration keys. Flags a command doesn't define are
// skipped.
var flagBindings = map[string]string{
	"output.prefix": "path",
	"output.quick":  "quick",
	"schema.path":   "schema",
	"metrics.addr":  "metrics-addr",
	"log.json":      "json",
}

// NewRootCmd builds the hourgen command tree. The root command itself runs
// a generation.
func NewRootCmd() *cobra.Command {
	var state runState

	rootCmd := &cobra.Command{
		Use:   "hourgen",
		Short: "Generate one hour of synthetic records as a partitioned Parquet file",
		Long: `hourgen - synthetic hourly Parquet generator.

Writes 100 records to <prefix>/year=Y/month=M/day=D/hour=H/<random>.parquet,
spreading them evenly over an hour (one every 36s) unless --quick is given.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (HOURGEN_* prefix, e.g. HOURGEN_OUTPUT_PREFIX)
3. Config file (--config, or ./hourgen.toml searching up directories)
4. User config (~/.hourgen/config.toml)
5. Default values

Examples:
  hourgen                                  # Current UTC hour, paced, to file:///tmp
  hourgen -q -d 2024031507                 # 2024-03-15 07:00, no pacing
  hourgen -p s3://bucket/data              # Write to S3
  hourgen inspect file:///tmp/year=2024/month=3/day=15/hour=7/AbCdEfGhIj.parquet`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, state.cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringP("datetime", "d", "", "Target hour override in format YYYYMMDDHH (default: current UTC hour)")
	flags.StringP("path", "p", "", "Path prefix, e.g. file:///tmp, mem://out, s3://bucket/data or gs://bucket/data (default: file:///tmp)")
	flags.BoolP("quick", "q", false, "Write all records immediately instead of pacing them across the hour")
	flags.StringP("schema", "s", "", "Avro schema file (default: embedded samplerec.avsc)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on host:port during the run")

	persistent := rootCmd.PersistentFlags()
	persistent.StringP("config", "c", "", "Config file (TOML)")
	persistent.Bool("json", false, "Output logs as JSON")
	persistent.CountP("verbose", "v", "Increase output verbosity (-v for debug)")

	rootCmd.AddCommand(newInspectCmd(&state))
	rootCmd.AddCommand(newConfigCmd(&state))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// runState is the configuration resolved before any command runs.
type runState struct {
	v   *viper.Viper
	cfg *config.Config
}

func (s *runState) setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")

	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	err = logger.Initialize(logger.Options{
		JSON:      cfg.Log.JSON,
		Verbosity: verbosity,
		Theme:     cfg.Log.Theme,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	s.v = v
	s.cfg = cfg
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagBindings {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", name)
		}
	}
	return nil
}
