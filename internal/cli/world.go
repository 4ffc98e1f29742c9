package cli

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/hardercore-api/internal/api/request"
	"github.com/mcoot/hardercore-api/internal/api/response"
)

func newWorldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "world",
		Short: "World lifecycle commands",
	}

	cmd.AddCommand(newWorldCurrentCmd())
	cmd.AddCommand(newWorldSwitchCmd())
	cmd.AddCommand(newWorldCreateCmd())
	cmd.AddCommand(newWorldKillCmd())
	cmd.AddCommand(newWorldSaveCmd())
	cmd.AddCommand(newWorldPathCmd())

	return cmd
}

// worldRequest runs one world request and prints the resulting world
func worldRequest(cmd *cobra.Command, method, path string, body any) error {
	var result response.World

	if err := client.Do(cmd.Context(), method, path, body, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output, cmd.OutOrStdout())
	out.Print(result)
	return nil
}

func newWorldCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active world",
		RunE: func(cmd *cobra.Command, args []string) error {
			return worldRequest(cmd, http.MethodGet, "/world/current", nil)
		},
	}
}

func newWorldSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <n>",
		Short: "Make world n active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid world number %q", args[0])
			}
			return worldRequest(cmd, http.MethodPut, "/world", request.SwitchWorldRequest{World: &n})
		},
	}
}

func newWorldCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Start a new empty world",
		RunE: func(cmd *cobra.Command, args []string) error {
			return worldRequest(cmd, http.MethodPut, "/world/create", nil)
		},
	}
}

func newWorldKillCmd() *cobra.Command {
	var req request.KillRequest

	cmd := &cobra.Command{
		Use:   "kill",
		Short: "End the active world with a death and start the next one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return worldRequest(cmd, http.MethodPut, "/world/kill", req)
		},
	}

	cmd.Flags().StringVar(&req.Killer, "killer", "", "Id of the player who died")
	cmd.Flags().StringVar(&req.SourceName, "source-name", "", "What killed them")
	cmd.Flags().StringVar(&req.SourceType, "source-type", "", "Category of the death")
	_ = cmd.MarkFlagRequired("killer")

	return cmd
}

func newWorldSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Flush the active world to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return worldRequest(cmd, http.MethodPut, "/world/save", nil)
		},
	}
}

func newWorldPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the server stores its data",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.DatabasePath

			if err := client.Get(cmd.Context(), "/database/path", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
