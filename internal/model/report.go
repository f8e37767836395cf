package model

import "time"

// RunReport accumulates the non-fatal error counters and artifact paths of a
// single pipeline run. Every counter maps to one entry of the error
// taxonomy; all are informational — the run proceeds on the surviving rows.
type RunReport struct {
	ID   string `json:"id"`
	Year int    `json:"year"`

	RowsJoined         int `json:"rows_joined"`
	RowsRanked         int `json:"rows_ranked"`
	MissingInputFiles  int `json:"missing_input_files"`
	UnresolvableNames  int `json:"unresolvable_names"`
	DroppedJoinRows    int `json:"dropped_join_rows"`
	DegenerateColumns  int `json:"degenerate_columns"`
	UndefinedIndexRows int `json:"undefined_index_rows"`
	GeoMappingMisses   int `json:"geo_mapping_misses"`

	Artifacts []string `json:"artifacts,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
