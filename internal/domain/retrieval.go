package domain

// Match is one ranked hit from a vector store query.
type Match struct {
	ChunkID    string   `json:"chunk_id"`
	DocumentID string   `json:"document_id"`
	Index      int      `json:"index"`
	Content    string   `json:"content"`
	Score      float64  `json:"score"`
	Rank       int      `json:"rank"`
	Meta       Metadata `json:"metadata"`
}

// ExternalResource is a best-effort result from an external content provider.
type ExternalResource struct {
	Provider string `json:"provider"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet,omitempty"`
}

// Source identifies a corpus chunk used to assemble an answer.
type Source struct {
	Title  string `json:"title"`
	Module string `json:"module"`
	URL    string `json:"url,omitempty"`
}
