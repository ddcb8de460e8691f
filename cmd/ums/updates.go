package main

import "github.com/spf13/cobra"

var learnerProfileUpdateCmd = &cobra.Command{
	Use:   "learner-profile-update",
	Short: "Upsert a learner profile by (storeId, learnerId)",
	Long: `Upsert a learner profile. Requires a --request file carrying
learnerId and at least one identityRef; the first identityRef is promoted
to primary if none is marked.

Examples:
  ums learner-profile-update --request learner.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "learner_profile_update", req)
	},
}

var identityGraphUpdateCmd = &cobra.Command{
	Use:   "identity-graph-update",
	Short: "Upsert a typed relation between two identity refs",
	Long:  `Upsert a typed relation edge between two identity refs within a learner profile's identity graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "identity_graph_update", req)
	},
}

var misconceptionUpdateCmd = &cobra.Command{
	Use:   "misconception-update",
	Short: "Record a harmful or correction signal against a misconception key",
	Long: `Record a harmful or correction signal against a misconception key,
escalating a harm anti-pattern artifact once the harmful signal count
crosses a threshold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "misconception_update", req)
	},
}

var curriculumPlanUpdateCmd = &cobra.Command{
	Use:   "curriculum-plan-update",
	Short: "Upsert one recommended objective in a learner's curriculum plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "curriculum_plan_update", req)
	},
}

var reviewScheduleUpdateCmd = &cobra.Command{
	Use:   "review-schedule-update",
	Short: "Upsert one spaced-repetition schedule entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "review_schedule_update", req)
	},
}

var reviewScheduleClockAsOf string

var reviewScheduleClockCmd = &cobra.Command{
	Use:   "review-schedule-clock",
	Short: "Advance overdue scheduled review entries to due",
	Long:  `Advance every scheduled review entry whose dueAt has passed (as of --as-of, defaulting to now) to status=due.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		setIfNonEmpty(req, "asOf", reviewScheduleClockAsOf)
		return runOperation(cmd, "review_schedule_clock", req)
	},
}

var reviewSetRebalanceCmd = &cobra.Command{
	Use:   "review-set-rebalance",
	Short: "Recompute ease factor and interval for a batch of review outcomes",
	Long:  `Recompute ease factor and interval SM-2 style for a batch of review outcomes supplied via --request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "review_set_rebalance", req)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{
		learnerProfileUpdateCmd, identityGraphUpdateCmd, misconceptionUpdateCmd,
		curriculumPlanUpdateCmd, reviewScheduleUpdateCmd, reviewSetRebalanceCmd,
	} {
		rootCmd.AddCommand(cmd)
		addRequestFileFlag(cmd)
	}

	rootCmd.AddCommand(reviewScheduleClockCmd)
	addRequestFileFlag(reviewScheduleClockCmd)
	reviewScheduleClockCmd.Flags().StringVar(&reviewScheduleClockAsOf, "as-of", "", "ISO-8601 instant to evaluate due-ness against (default: now)")
}
