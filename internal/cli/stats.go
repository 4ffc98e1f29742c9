package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/hardercore-api/internal/api/request"
	"github.com/mcoot/hardercore-api/internal/api/response"
	"github.com/mcoot/hardercore-api/internal/model"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Player stats commands",
	}

	cmd.AddCommand(newStatsGetCmd())
	cmd.AddCommand(newStatsListCmd())
	cmd.AddCommand(newStatsPutCmd())

	return cmd
}

func statsPath(id string) string {
	return fmt.Sprintf("/world/stats/%s", url.PathEscape(id))
}

func newStatsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player's stats in the active world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerStats

			if err := client.Get(cmd.Context(), statsPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newStatsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every player's stats in the active world",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.StatsList

			if err := client.Get(cmd.Context(), "/world/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newStatsPutCmd() *cobra.Command {
	counters := make(map[model.StatField]*uint64, len(model.StatFields))
	var died bool
	var kill request.KillRequest

	cmd := &cobra.Command{
		Use:   "put <player-id>",
		Short: "Add to a player's counters",
		Long: `Add to a player's counters in the active world. Only the counters given
as flags are sent. With --died the world ends after the update.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.StatsRequest{}
			for field, value := range counters {
				if !cmd.Flags().Changed(flagName(field)) {
					continue
				}
				v := *value
				switch field {
				case model.StatTimeInWater:
					req.TimeInWater = &v
				case model.StatTimeInNether:
					req.TimeInNether = &v
				case model.StatDamageTaken:
					req.DamageTaken = &v
				case model.StatMobsKilled:
					req.MobsKilled = &v
				case model.StatFoodEaten:
					req.FoodEaten = &v
				case model.StatExperienceGained:
					req.ExperienceGained = &v
				}
			}
			if died {
				k := kill
				req.KillInfo = &k
			}

			var result response.StatsUpdate

			if err := client.Put(cmd.Context(), statsPath(args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	for _, field := range model.StatFields {
		counters[field] = cmd.Flags().Uint64(flagName(field), 0, fmt.Sprintf("Amount to add to %s", field))
	}
	cmd.Flags().BoolVar(&died, "died", false, "The player died; end the world after the update")
	cmd.Flags().StringVar(&kill.Killer, "killer", "", "Player who died (default: the updated player)")
	cmd.Flags().StringVar(&kill.SourceName, "source-name", "", "What killed them")
	cmd.Flags().StringVar(&kill.SourceType, "source-type", "", "Category of the death")

	return cmd
}

// flagName turns a wire name like timeInWater into time-in-water
func flagName(field model.StatField) string {
	name := field.String()
	out := make([]byte, 0, len(name)+4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			out = append(out, '-', c+('a'-'A'))
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
