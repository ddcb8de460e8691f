package main

import "github.com/spf13/cobra"

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Append a batch of raw events as episodes",
	Long: `Ingest a batch of raw events (conversation turns, Jira issues, tool
output) as episodes. Secrets are redacted and unsafe-instruction content is
flagged before storage. Duplicate fingerprints within the same store are
counted, not re-stored.

Examples:
  ums ingest --request events.json
  cat events.json | ums ingest -r -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequestFile()
		if err != nil {
			return err
		}
		return runOperation(cmd, "ingest", req)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	addRequestFileFlag(ingestCmd)
}
