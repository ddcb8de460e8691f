package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bleedingdev/ums/internal/config"
	"github.com/bleedingdev/ums/internal/engine"
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/provenance"
	"github.com/bleedingdev/ums/internal/storage"
)

var (
	flagStoreID   string
	flagProfile   string
	flagStateFile string
	flagPretty    bool
	flagVerbose   bool
	flagOutput    string
	flagConfig    string

	cfg   *config.Config
	eng   *engine.Engine
	state *storage.StateStore
	prov  *provenance.Graph
)

var rootCmd = &cobra.Command{
	Use:   "ums",
	Short: "Universal Memory System operation engine CLI",
	Long: `ums drives the Universal Memory System's deterministic operation engine
from the command line: ingest raw events, recall bounded context, curate
procedural rules from evidence, and run the auditing/export operations,
all against state persisted to a single --state-file between invocations.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return persist()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ums:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStoreID, "store-id", "", "store identifier (default: config default-store-id)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "profile identifier within the store")
	rootCmd.PersistentFlags().StringVar(&flagStateFile, "state-file", "", "path to the persisted engine state")
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output format (json, yaml)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (overrides UMS_CONFIG)")
}

// setup resolves configuration, loads persisted state into a fresh Engine,
// and opens the provenance log, in that order, before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	if flagConfig != "" {
		if err := os.Setenv("UMS_CONFIG", flagConfig); err != nil {
			return err
		}
	}

	overrides := &config.Config{Output: flagOutput, StateFile: flagStateFile, Verbose: flagVerbose, DefaultStoreID: flagStoreID}
	loaded, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	engineConfig := engine.DefaultConfig()
	if cfg.Guardrails.DefaultMaxItems != 0 {
		engineConfig.DefaultMaxItems = cfg.Guardrails.DefaultMaxItems
	}
	if cfg.Guardrails.DefaultTokenBudget != 0 {
		engineConfig.DefaultTokenBudget = cfg.Guardrails.DefaultTokenBudget
	}
	if cfg.Guardrails.DefaultMaxBytes != 0 {
		engineConfig.DefaultMaxBytes = cfg.Guardrails.DefaultMaxBytes
	}
	if cfg.Guardrails.MaxWorkingEpisodeWindow != 0 {
		engineConfig.MaxWorkingEpisodeWindow = cfg.Guardrails.MaxWorkingEpisodeWindow
	}
	eng = engine.New(nil, engineConfig)

	state = storage.NewStateStore(cfg.StateFile)
	snap, ok, err := state.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if ok {
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal loaded state: %w", err)
		}
		if err := eng.Import(data); err != nil {
			return fmt.Errorf("import state: %w", err)
		}
	}

	provPath := filepath.Join(filepath.Dir(cfg.StateFile), "provenance.jsonl")
	prov, err = provenance.NewGraph(provPath)
	if err != nil {
		return fmt.Errorf("open provenance log: %w", err)
	}

	return nil
}

// persist saves the engine's current state back to disk after every
// subcommand, whether or not it mutated anything: a no-op write is cheap
// and keeps the on-disk snapshot always current.
func persist() error {
	if eng == nil || state == nil {
		return nil
	}
	return state.Save(eng.Export())
}

// resolveStoreID applies the CLI's store-id precedence: flag, then the
// loaded config's default.
func resolveStoreID() string {
	if flagStoreID != "" {
		return flagStoreID
	}
	return cfg.DefaultStoreID
}

// runOperation executes operation against the engine, appends a
// provenance record for it, and prints the response per --output/--pretty.
func runOperation(cmd *cobra.Command, operation string, request map[string]any) error {
	if request == nil {
		request = map[string]any{}
	}
	request["storeId"] = resolveStoreID()
	request["profile"] = flagProfile

	resp, err := eng.Execute(operation, request)
	if err != nil {
		return err
	}

	if prov != nil {
		rec := provenance.Record{
			Operation:     operation,
			StoreID:       resolveStoreID(),
			Profile:       flagProfile,
			RequestDigest: fmt.Sprintf("%v", resp["requestDigest"]),
			ProducedIDs:   extractProducedIDs(resp),
			Action:        fmt.Sprintf("%v", resp["action"]),
			CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if appendErr := prov.Append(rec); appendErr != nil && flagVerbose {
			fmt.Fprintln(cmd.ErrOrStderr(), "ums: provenance append failed:", appendErr)
		}
	}

	return printResponse(cmd, resp)
}

// extractProducedIDs pulls the ID out of any top-level entity this
// response carries, for the provenance log's lineage trace.
func extractProducedIDs(resp map[string]any) []string {
	var ids []string
	for _, key := range []string{"rule", "antiPattern", "learnerProfile", "identityEdge", "misconception", "curriculumItem", "reviewSchedule", "policyDecision"} {
		switch v := resp[key].(type) {
		case *entity.ProceduralRule:
			ids = append(ids, v.ID)
		case *entity.AntiPattern:
			ids = append(ids, v.ID)
		case *entity.LearnerProfile:
			ids = append(ids, v.ID)
		case *entity.IdentityEdge:
			ids = append(ids, v.ID)
		case *entity.Misconception:
			ids = append(ids, v.ID)
		case *entity.CurriculumPlanItem:
			ids = append(ids, v.ID)
		case *entity.ReviewScheduleEntry:
			ids = append(ids, v.ID)
		case *entity.PolicyDecision:
			ids = append(ids, v.ID)
		}
	}
	return ids
}

func printResponse(cmd *cobra.Command, resp map[string]any) error {
	format := cfg.Output
	if flagOutput != "" {
		format = flagOutput
	}

	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		data, err := yaml.Marshal(resp)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		var data []byte
		var err error
		if flagPretty {
			data, err = json.MarshalIndent(resp, "", "  ")
		} else {
			data, err = json.Marshal(resp)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
}
