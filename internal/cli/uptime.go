package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/hardercore-api/internal/api/request"
	"github.com/mcoot/hardercore-api/internal/api/response"
)

func newUptimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uptime",
		Short: "Server uptime commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show world and total uptime",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Uptime

			if err := client.Get(cmd.Context(), "/world/uptime", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <seconds>",
		Short: "Report the active world's uptime",
		Long: `Report the active world's uptime in seconds. The value replaces the
world's uptime; the total grows by the increase.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seconds %q", args[0])
			}

			var result response.Uptime

			if err := client.Put(cmd.Context(), "/world/stats/uptime", request.UptimeRequest{Uptime: &seconds}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	})

	return cmd
}
