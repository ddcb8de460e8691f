// Package provenance records and traces the lineage of operations the
// engine has executed: which operation, against which (storeId, profile),
// from which request digest, produced which entity IDs. It is file-backed
// JSONL (tolerant of a missing or partially-written file, since the engine
// itself performs no file I/O) and intended for the CLI shell to append to
// after every successful Engine.Execute call.
package provenance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Record links one operation invocation to the entity IDs it produced.
// ID is an operational log identifier, not a content-addressed one: two
// invocations with identical operation/store/profile/digest still get
// distinct records, since each is a separate occurrence in time.
type Record struct {
	ID            string   `json:"id"`
	Operation     string   `json:"operation"`
	StoreID       string   `json:"storeId"`
	Profile       string   `json:"profile"`
	RequestDigest string   `json:"requestDigest"`
	ProducedIDs   []string `json:"producedIds,omitempty"`
	Action        string   `json:"action"`
	CreatedAt     string   `json:"createdAt"`
}

// Graph is an in-memory view of a provenance log, loaded from (and
// appended to) a single JSONL file.
type Graph struct {
	Path    string
	Records []Record
}

// NewGraph loads a graph from path. A missing file is not an error: it
// simply yields an empty graph, matching the engine's stance that absent
// state is the starting state, not a failure.
func NewGraph(path string) (*Graph, error) {
	g := &Graph{Path: path}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) load() error {
	f, err := os.Open(g.Path)
	if os.IsNotExist(err) {
		g.Records = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("open provenance log: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	g.Records = nil
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue // skip malformed lines rather than fail the whole load
		}
		g.Records = append(g.Records, rec)
	}
	return scanner.Err()
}

// Append writes rec to the log file and keeps the in-memory copy in sync.
// If rec.ID is empty, a new UUID is assigned.
func (g *Graph) Append(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if dir := filepath.Dir(g.Path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create provenance directory: %w", err)
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal provenance record: %w", err)
	}

	f, err := os.OpenFile(g.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open provenance log: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append provenance record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync provenance log: %w", err)
	}

	g.Records = append(g.Records, rec)
	return nil
}

// Trace returns every record that produced entityID, oldest first (the
// order records were appended in).
func (g *Graph) Trace(entityID string) []Record {
	var out []Record
	for _, rec := range g.Records {
		for _, id := range rec.ProducedIDs {
			if id == entityID {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// FindByOperation returns every record for a given operation name.
func (g *Graph) FindByOperation(operation string) []Record {
	var out []Record
	for _, rec := range g.Records {
		if rec.Operation == operation {
			out = append(out, rec)
		}
	}
	return out
}

// Stats summarizes a provenance graph.
type Stats struct {
	TotalRecords     int            `json:"totalRecords"`
	OperationCounts  map[string]int `json:"operationCounts"`
	StoreCounts      map[string]int `json:"storeCounts"`
	DistinctProfiles int            `json:"distinctProfiles"`
}

// GetStats computes summary statistics over the loaded records.
func (g *Graph) GetStats() Stats {
	stats := Stats{
		TotalRecords:    len(g.Records),
		OperationCounts: make(map[string]int),
		StoreCounts:     make(map[string]int),
	}
	profiles := make(map[string]bool)
	for _, rec := range g.Records {
		stats.OperationCounts[rec.Operation]++
		stats.StoreCounts[rec.StoreID]++
		profiles[rec.StoreID+"|"+rec.Profile] = true
	}
	stats.DistinctProfiles = len(profiles)
	return stats
}
