package feed

// Entry is one raw feed item before text extraction. Any field may be empty.
type Entry struct {
	Title     string
	Link      string
	Source    string
	Published string
}

// Category configuration types

type CategoriesConfig struct {
	Categories map[string][]string `yaml:"categories"`
}
