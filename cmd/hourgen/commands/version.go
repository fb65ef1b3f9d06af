package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/hourgen/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show hourgen version information",
		Long:  `Display version, build time, commit hash, and platform information for the hourgen binary. Use --json for machine-readable output.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			info := version.Get()
			w := cmd.OutOrStdout()

			if jsonOutput {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(output))
				return nil
			}

			fmt.Fprintln(w, info.String())
			fmt.Fprintf(w, "Platform: %s\n", info.Platform)
			fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
			return nil
		},
	}
}
