package main

import "github.com/spf13/cobra"

var (
	policyDecisionProfileID string
	policyDecisionKey       string
	policyDecisionOutcome   string
	policyDecisionDowngrade bool
)

var policyDecisionUpdateCmd = &cobra.Command{
	Use:   "policy-decision-update",
	Short: "Upsert an allow/review/deny policy decision gating recall",
	Long: `Upsert a policy decision keyed by (storeId, profileId, policyKey) with
outcome allow, review, or deny. A normal upsert only escalates the
outcome (allow < review < deny); pass --downgrade to force an explicit
de-escalation. recall-authorization consults the most recent decision
for a key when deciding whether to permit a recall.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		setIfNonEmpty(req, "profileId", policyDecisionProfileID)
		setIfNonEmpty(req, "policyKey", policyDecisionKey)
		setIfNonEmpty(req, "outcome", policyDecisionOutcome)
		if cmd.Flags().Changed("downgrade") {
			req["downgrade"] = policyDecisionDowngrade
		}
		return runOperation(cmd, "policy_decision_update", req)
	},
}

var (
	recallAuthorizationProfileID string
	recallAuthorizationKey       string
)

var recallAuthorizationCmd = &cobra.Command{
	Use:   "recall-authorization",
	Short: "Check whether a recall against a policy key is currently allowed",
	Long: `Check the most recent outcome recorded for (profileId, policyKey),
defaulting to allow when no policy decision has ever been recorded for it.

Examples:
  ums recall-authorization --profile-id learner-1 --policy-key export-to-tutor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		setIfNonEmpty(req, "profileId", recallAuthorizationProfileID)
		setIfNonEmpty(req, "policyKey", recallAuthorizationKey)
		return runOperation(cmd, "recall_authorization", req)
	},
}

var policyAuditExportCmd = &cobra.Command{
	Use:   "policy-audit-export",
	Short: "Export the full policy decision history for a profile",
	Long:  `Export every policy decision recorded for a profile, newest first, truncated to fit the payload byte budget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "policy_audit_export", req)
	},
}

func init() {
	rootCmd.AddCommand(policyDecisionUpdateCmd)
	addRequestFileFlag(policyDecisionUpdateCmd)
	policyDecisionUpdateCmd.Flags().StringVar(&policyDecisionProfileID, "profile-id", "", "subject profile ID the decision applies to")
	policyDecisionUpdateCmd.Flags().StringVar(&policyDecisionKey, "policy-key", "", "policy key")
	policyDecisionUpdateCmd.Flags().StringVar(&policyDecisionOutcome, "outcome", "", "allow, review, or deny")
	policyDecisionUpdateCmd.Flags().BoolVar(&policyDecisionDowngrade, "downgrade", false, "permit an explicit de-escalation of outcome")

	rootCmd.AddCommand(recallAuthorizationCmd)
	addRequestFileFlag(recallAuthorizationCmd)
	recallAuthorizationCmd.Flags().StringVar(&recallAuthorizationProfileID, "profile-id", "", "subject profile ID to check")
	recallAuthorizationCmd.Flags().StringVar(&recallAuthorizationKey, "policy-key", "", "policy key")

	rootCmd.AddCommand(policyAuditExportCmd)
	addRequestFileFlag(policyAuditExportCmd)
}
