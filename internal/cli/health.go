package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/hardercore-api/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show server health and save status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Health
			if err := client.Get(cmd.Context(), "/health", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)

			if strict && result.Status != response.HealthOK {
				return fmt.Errorf("server is %s: %s", result.Status, result.LastError)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero unless the last save succeeded")
	return cmd
}
