package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/xaenox/teampulse/internal/behavior"
	"github.com/xaenox/teampulse/internal/classifier"
	"github.com/xaenox/teampulse/internal/engine"
	"github.com/xaenox/teampulse/internal/models"
)

type classifyResult struct {
	Text     string              `json:"text" yaml:"text"`
	Category classifier.Category `json:"category" yaml:"category"`
	Reply    *string             `json:"reply" yaml:"reply"`
}

func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify a chat message and show the bot's reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := classifier.Classify(args[0])
			res := classifyResult{Text: args[0], Category: category}
			if reply, ok := classifier.Reply(category); ok {
				res.Reply = &reply
			}
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, res)
		},
	}
}

type alertsInput struct {
	User     string                  `json:"user" yaml:"user"`
	Behavior models.BehaviorSnapshot `json:"behavior" yaml:"behavior"`
	Task     models.TaskSnapshot     `json:"task" yaml:"task"`
}

func NewAlertsCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate risk alerts for one user",
		Long: `Evaluate risk alerts for one user.

The input file holds {user, behavior, task} as JSON or YAML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in alertsInput
			if err := readInput(file, &in); err != nil {
				return err
			}
			if in.User == "" {
				return errors.New("input is missing user")
			}
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, engine.EvaluateAlerts(in.User, in.Behavior, in.Task))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func NewLeaderboardCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank users by behavior score",
		Long: `Rank users by behavior score.

The input file maps user to behavior, as JSON or YAML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := map[string]models.BehaviorSnapshot{}
			if err := readInput(file, &users); err != nil {
				return err
			}
			board := engine.TopN(engine.ScoreLeaderboard(users), limit)
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, board)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input file (JSON or YAML)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the top N entries (0 = all)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func NewBehaviorCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file string
		at   string
	)

	cmd := &cobra.Command{
		Use:   "behavior",
		Short: "Derive a behavior snapshot from a commit activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			var log models.ActivityLog
			if err := readInput(file, &log); err != nil {
				return err
			}

			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return err
				}
				now = t
			}
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, behavior.Derive(log, now))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "activity log file (JSON or YAML)")
	cmd.Flags().StringVar(&at, "at", "", "evaluate as of this RFC 3339 time instead of now")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
