package ingest

// Issue records one skipped file. Ingestion fails soft: issues accumulate,
// the run never aborts on a single file.
type Issue struct {
	Path   string `json:"path"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// Summary aggregates one ingestion run.
type Summary struct {
	RunID       string         `json:"run_id"`
	CourseID    string         `json:"course_id"`
	Files       int            `json:"files"`
	Documents   int            `json:"documents"`
	Skipped     int            `json:"skipped"`
	Chunks      int            `json:"chunks"`
	Tokens      int            `json:"tokens"`
	ByType      map[string]int `json:"by_type"`
	ByModule    map[string]int `json:"by_module"`
	ModuleOrder []string       `json:"module_order"`
	Issues      []Issue        `json:"issues"`
	DurationMS  int64          `json:"duration_ms"`
}
