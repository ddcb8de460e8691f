package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// requestFileFlag is the path to a JSON file (or "-" for stdin) carrying
// the bulk of a request's payload: event batches, candidate lists, or any
// other field too structured for a scalar flag. Named flags registered by
// individual subcommands are merged over whatever this file supplies, so a
// caller can keep most of a request in a checked-in fixture and override
// one field at the command line.
var requestFileFlag string

func addRequestFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&requestFileFlag, "request", "r", "", "path to a JSON file carrying the request body (- for stdin)")
}

// loadRequestFile reads requestFileFlag, if set, and decodes it as a JSON
// object. An unset flag yields an empty request, not an error.
func loadRequestFile() (map[string]any, error) {
	if requestFileFlag == "" {
		return map[string]any{}, nil
	}

	var data []byte
	var err error
	if requestFileFlag == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(requestFileFlag)
	}
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}

	var req map[string]any
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode request file: %w", err)
	}
	return req, nil
}

// setIfNonEmpty writes value into req under key only if value is non-empty,
// so an unset flag never overwrites a value the request file already set.
func setIfNonEmpty(req map[string]any, key, value string) {
	if value != "" {
		req[key] = value
	}
}
