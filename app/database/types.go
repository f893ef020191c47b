package database

// Article is one ingested article. Records are never mutated once built;
// stores only ever replace whole category slices.
type Article struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Published string `json:"published"`
	Text      string `json:"text"`
	Category  string `json:"category"`
}
