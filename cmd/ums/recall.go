package main

import "github.com/spf13/cobra"

var (
	recallQuery         string
	recallMaxItems      int
	recallMaxBytes      int
	recallTokenBudget   int
	recallIncludeUnsafe bool
	recallTargetStoreID string
	recallAllowCrossRead bool
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Build a bounded recall pack: episodes, rules, and anti-patterns",
	Long: `Recall a bounded context pack ranked against --query, respecting
--max-items and the configured byte/token budget. Truncation on overflow
drops episodes first, then anti-patterns, then rules.

Examples:
  ums context --query "retry logic"
  ums context --query "payments" --max-items 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		applyRecallFlags(cmd, req)
		return runOperation(cmd, "context", req)
	},
}

var tutorDegradedCmd = &cobra.Command{
	Use:   "tutor-degraded",
	Short: "Build a reduced recall pack for a degraded-capacity consumer",
	Long: `Serve a reduced recall pack: half the byte budget, core rules and
episodes only, no anti-patterns. For a downstream consumer operating
without full context capacity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		applyRecallFlags(cmd, req)
		return runOperation(cmd, "tutor_degraded", req)
	},
}

func applyRecallFlags(cmd *cobra.Command, req map[string]any) {
	setIfNonEmpty(req, "query", recallQuery)
	setIfNonEmpty(req, "targetStoreId", recallTargetStoreID)
	if cmd.Flags().Changed("max-items") {
		req["maxItems"] = recallMaxItems
	}
	if cmd.Flags().Changed("max-bytes") {
		req["maxBytes"] = recallMaxBytes
	}
	if cmd.Flags().Changed("token-budget") {
		req["tokenBudget"] = recallTokenBudget
	}
	if cmd.Flags().Changed("include-unsafe") {
		req["includeUnsafe"] = recallIncludeUnsafe
	}
	if cmd.Flags().Changed("allow-cross-store-read") {
		req["allowCrossSpaceRead"] = recallAllowCrossRead
	}
}

func init() {
	for _, cmd := range []*cobra.Command{contextCmd, tutorDegradedCmd} {
		rootCmd.AddCommand(cmd)
		addRequestFileFlag(cmd)
		cmd.Flags().StringVar(&recallQuery, "query", "", "ranking query")
		cmd.Flags().IntVar(&recallMaxItems, "max-items", 0, "max items per category")
		cmd.Flags().IntVar(&recallMaxBytes, "max-bytes", 0, "payload byte budget")
		cmd.Flags().IntVar(&recallTokenBudget, "token-budget", 0, "payload token budget")
		cmd.Flags().BoolVar(&recallIncludeUnsafe, "include-unsafe", false, "include flagged-unsafe episodes")
		cmd.Flags().StringVar(&recallTargetStoreID, "target-store-id", "", "recall from a different store (requires allowlisting)")
		cmd.Flags().BoolVar(&recallAllowCrossRead, "allow-cross-store-read", false, "permit a cross-store recall")
	}
}
