package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Batch is the normalized result of one fetch for one classification.
type Batch struct {
	ID             uuid.UUID          `json:"id" yaml:"id"`
	Classification string             `json:"classification" yaml:"classification"`
	FetchedAt      time.Time          `json:"fetched_at" yaml:"fetched_at"`
	PagesFetched   int                `json:"pages_fetched" yaml:"pages_fetched"`
	Skipped        int                `json:"skipped" yaml:"skipped"` // records without a usable id
	Metadata       []ArtifactMetadata `json:"metadata" yaml:"metadata"`
	Media          []ArtifactMedia    `json:"media" yaml:"media"`
	Colors         []ArtifactColor    `json:"colors" yaml:"colors"`
	Raw            []json.RawMessage  `json:"-" yaml:"-"`
}

// TableCounts holds row counts for the three artifact tables.
type TableCounts struct {
	Metadata int64 `json:"artifact_metadata"`
	Media    int64 `json:"artifact_media"`
	Colors   int64 `json:"artifact_colors"`
}
