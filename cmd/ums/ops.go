package main

import "github.com/spf13/cobra"

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the full invariant sweep over a profile",
	Long:  `Run every invariant sweep (evidence, tombstone reasons, chronology, freshness, review-schedule consistency) and report overall pass/fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, "audit", map[string]any{})
	},
}

var (
	exportMaxItems int
	exportMaxBytes int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a bounded playbook of top rules and anti-patterns",
	Long:  `Export the highest-confidence active rules and anti-patterns, tiered by confidence, plus per-kind counts, truncated to fit the payload budget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := map[string]any{}
		if cmd.Flags().Changed("max-items") {
			req["maxItems"] = exportMaxItems
		}
		if cmd.Flags().Changed("max-bytes") {
			req["maxBytes"] = exportMaxBytes
		}
		return runOperation(cmd, "export", req)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report bucket sizes, guardrail configuration, and audit status",
	Long:  `One at-a-glance health snapshot: bucket counts, guardrail configuration, standing context-budget pressure, and a quick audit pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, "doctor", map[string]any{})
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(doctorCmd)

	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportMaxItems, "max-items", 0, "max rules/anti-patterns to export")
	exportCmd.Flags().IntVar(&exportMaxBytes, "max-bytes", 0, "payload byte budget")
}
