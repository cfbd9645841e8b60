package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect ideactl configuration",
		Long: `Configuration hierarchy (highest to lowest priority):
1. Environment variables
2. .env file (or --env-file)
3. Defaults`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Show prints the effective configuration as YAML. Secrets and connection strings are omitted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(opts.config())
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			_, err = opts.out.Write(data)
			return err
		},
	})
	return cmd
}
