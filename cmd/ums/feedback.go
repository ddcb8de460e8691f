package main

import "github.com/spf13/cobra"

var (
	feedbackTargetRuleID string
	feedbackHelpful      bool
	feedbackHarmful      bool
	feedbackInvert       bool
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Apply a helpful/harmful signal to a rule",
	Long: `Apply a helpful or harmful feedback signal to a target rule,
tombstoning it if confidence falls to the floor. With --harmful and
--invert (and not --helpful), the rule is also inverted into an
anti-pattern.

Examples:
  ums feedback --rule-id rule_abc123 --harmful
  ums feedback --rule-id rule_abc123 --harmful --invert`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		setIfNonEmpty(req, "targetRuleId", feedbackTargetRuleID)
		if cmd.Flags().Changed("helpful") {
			req["helpful"] = feedbackHelpful
		}
		if cmd.Flags().Changed("harmful") {
			req["harmful"] = feedbackHarmful
		}
		if cmd.Flags().Changed("invert") {
			req["invert"] = feedbackInvert
		}
		return runOperation(cmd, "feedback", req)
	},
}

var (
	outcomeTaskID           string
	outcomeSuccess          bool
	outcomeMisconceptionKey string
)

var outcomeCmd = &cobra.Command{
	Use:   "outcome",
	Short: "Record a task outcome and reinforce the rules it used",
	Long: `Record a task outcome: an implicit reinforcement signal on every
rule the task used, and, on failure with --misconception-key set, an
implicit harmful misconception signal.

Examples:
  ums outcome --request outcome.json --success
  ums outcome --task-id task-1 --misconception-key off-by-one --request outcome.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		setIfNonEmpty(req, "taskId", outcomeTaskID)
		setIfNonEmpty(req, "misconceptionKey", outcomeMisconceptionKey)
		if cmd.Flags().Changed("success") {
			req["success"] = outcomeSuccess
		}
		return runOperation(cmd, "outcome", req)
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	addRequestFileFlag(feedbackCmd)
	feedbackCmd.Flags().StringVar(&feedbackTargetRuleID, "rule-id", "", "target rule ID or short fragment")
	feedbackCmd.Flags().BoolVar(&feedbackHelpful, "helpful", false, "signal the rule was helpful")
	feedbackCmd.Flags().BoolVar(&feedbackHarmful, "harmful", false, "signal the rule was harmful")
	feedbackCmd.Flags().BoolVar(&feedbackInvert, "invert", false, "invert a harmful-only rule into an anti-pattern")

	rootCmd.AddCommand(outcomeCmd)
	addRequestFileFlag(outcomeCmd)
	outcomeCmd.Flags().StringVar(&outcomeTaskID, "task-id", "", "task identifier")
	outcomeCmd.Flags().BoolVar(&outcomeSuccess, "success", false, "whether the task succeeded")
	outcomeCmd.Flags().StringVar(&outcomeMisconceptionKey, "misconception-key", "", "misconception key to record on failure")
}
