package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/hourgen/config"
	"github.com/teranos/hourgen/errors"
)

func newConfigCmd(state *runState) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show and validate hourgen configuration",
		Long: `Display and validate the effective hourgen configuration.

Examples:
  hourgen config show                 # Show effective configuration
  hourgen config show --format json   # Show configuration in JSON format
  hourgen config get output.prefix    # Get a specific value
  hourgen config validate             # Validate current configuration
  hourgen config where                # List config files that were checked`,
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  "Display the configuration after merging defaults, files, environment and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Encode(state.cfg, format)
			if err != nil {
				return err
			}
			if format != "json" {
				fmt.Fprintln(cmd.OutOrStdout(), "# hourgen configuration")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	showCmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Loading already validated; re-run so the command stands alone
			if err := state.cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., output.prefix, s3.region)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !state.v.IsSet(key) {
				err := errors.Newf("configuration key %q not found", key)
				return errors.Mark(err, errors.ErrInvalidInput)
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.v.Get(key))
			return nil
		},
	}

	whereCmd := &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
			fmt.Fprintln(w, "  [DEFAULT]  Built-in defaults")

			// An explicit --config replaces the file search
			if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
				fmt.Fprintf(w, "  [FILE]     %s (--config)\n", configFile)
			} else {
				for _, src := range config.Sources() {
					status := "missing"
					if src.Exists {
						status = "found"
					}
					fmt.Fprintf(w, "  [FILE]     %s (%s)\n", src.Path, status)
				}
			}
			fmt.Fprintf(w, "  [ENV]      %s_* environment variables\n", config.EnvPrefix)
			fmt.Fprintln(w, "  [FLAGS]    Command line flags")
			return nil
		},
	}

	configCmd.AddCommand(showCmd, getCmd, validateCmd, whereCmd)
	return configCmd
}
