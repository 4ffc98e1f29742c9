package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/hardercore-api/internal/services/auth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the shared API token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <token>",
		Short: "Store the token in the token file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SaveToken(args[0]); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Token saved to " + cfg.TokenFile)
			return nil
		},
	})

	var cost int
	hashCmd := &cobra.Command{
		Use:   "hash <token>",
		Short: "Print the bcrypt hash to use as HC_AUTH_TOKEN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashToken(args[0], cost)
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(hash)
			return nil
		},
	}
	hashCmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	cmd.AddCommand(hashCmd)

	return cmd
}
