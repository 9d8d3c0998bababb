package models

// Tag is a named image category
// Maps to: tags table
type Tag struct {
	ID    string `db:"id" json:"id"`
	Slug  string `db:"slug" json:"slug"`
	Label string `db:"label" json:"label"`
}
