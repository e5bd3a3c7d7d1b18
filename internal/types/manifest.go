//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// ManifestCounts summarizes the size of a generated dataset
type ManifestCounts struct {
	Stacks      int `json:"stacks"`
	Items       int `json:"items"`
	Plates      int `json:"plates"`
	EmptyPlates int `json:"empty_plates"`
	Defects     int `json:"defects"`
}

// ManifestFiles lists the files written for a dataset, relative to the output directory
type ManifestFiles struct {
	Batch   string `json:"batch"`
	Defects string `json:"defects"`
	Params  string `json:"params"`
	Xlsx    string `json:"xlsx,omitempty"`
}

// Manifest describes one generation run. It is written next to the CSV files
// so a dataset can be traced back to the seed and parameters that produced it.
type Manifest struct {
	RunID      uuid.UUID      `json:"run_id"`
	Seed       uint64         `json:"seed"`
	Policy     string         `json:"policy"`
	CreatedAt  time.Time      `json:"created_at"`
	Counts     ManifestCounts `json:"counts"`
	Files      ManifestFiles  `json:"files"`
	Parameters map[string]any `json:"parameters"`
}

// NewManifestCounts computes the counts section for a dataset
func NewManifestCounts(ds *Dataset) ManifestCounts {
	return ManifestCounts{
		Stacks:      len(ds.Stacks),
		Items:       ds.ItemCount(),
		Plates:      len(ds.Plates),
		EmptyPlates: ds.EmptyPlateCount(),
		Defects:     ds.DefectCount(),
	}
}
