// Package search backs the editor's item and category pickers: Meilisearch
// when configured and healthy, PostgreSQL full-text search otherwise.
package search

type ResultType string

const (
	ResultItem     ResultType = "item"
	ResultCategory ResultType = "category"
)

type Query struct {
	Text       string
	Limit      int
	Offset     int
	FilterType ResultType
	// FilterCategoryID narrows item results to one category.
	FilterCategoryID string
	OrganizationID   string
}

type Result struct {
	Type       ResultType `json:"type"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Snippet    string     `json:"snippet,omitempty"`
	CategoryID string     `json:"categoryId,omitempty"`
	Featured   bool       `json:"featured,omitempty"`
}

type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// ItemRecord is the indexed shape of a menu item.
type ItemRecord struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	CategoryID     string `json:"categoryId"`
	Status         string `json:"status"`
	Featured       bool   `json:"featured"`
}

// CategoryRecord is the indexed shape of a category.
type CategoryRecord struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
}
