package domain

// Relation enumerates the relationship kinds in the corpus graph.
type Relation string

const (
	// RelationContains links a folder-level container to a document inside it.
	RelationContains Relation = "CONTAINS"
	// RelationNextInModule links a document to its successor within a module.
	RelationNextInModule Relation = "NEXT_IN_MODULE"
	// RelationPrevInModule links a document to its predecessor within a module.
	RelationPrevInModule Relation = "PREV_IN_MODULE"
)

// Edge is a directed relationship between two corpus entities. Source and
// target always reference ids that exist in the same ingestion run.
type Edge struct {
	SourceID string            `json:"source_id"`
	TargetID string            `json:"target_id"`
	Relation Relation          `json:"relation"`
	Meta     map[string]string `json:"metadata,omitempty"`
}
