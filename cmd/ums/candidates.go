package main

import "github.com/spf13/cobra"

var reflectMaxCandidates int

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Emit candidate rule statements from recent episodes",
	Long: `Scan recent episodes grouped by type and emit candidate rule
statements with provisional confidence and evidence pointers. Never writes
to any bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-candidates") {
			req["maxCandidates"] = reflectMaxCandidates
		}
		return runOperation(cmd, "reflect", req)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Confirm candidate evidence pointers resolve and check for contradiction",
	Long: `Confirm each candidate's evidence pointers resolve to an existing
episode and flag candidates that contradict an existing anti-pattern.

Examples:
  ums validate --request candidates.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "validate", req)
	},
}

var (
	curateGuarded bool
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Upsert one rule per valid candidate",
	Long: `Upsert one procedural rule per valid candidate. With --guarded, a
candidate matching an unsafe-instruction pattern is rejected outright and
the resulting rule set must fit the configured payload budget.

Examples:
  ums curate --request candidates.json
  ums curate --request candidates.json --guarded`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		op := "curate"
		if curateGuarded {
			op = "curate_guarded"
		}
		return runOperation(cmd, op, req)
	},
}

func init() {
	rootCmd.AddCommand(reflectCmd)
	addRequestFileFlag(reflectCmd)
	reflectCmd.Flags().IntVar(&reflectMaxCandidates, "max-candidates", 10, "maximum candidates to emit")

	rootCmd.AddCommand(validateCmd)
	addRequestFileFlag(validateCmd)

	rootCmd.AddCommand(curateCmd)
	addRequestFileFlag(curateCmd)
	curateCmd.Flags().BoolVar(&curateGuarded, "guarded", false, "reject unsafe-instruction candidates and enforce the payload budget")
}
