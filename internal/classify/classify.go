// Package classify assigns category labels by keyword substring matching.
//
// A Table is pure data: an ordered list of categories, each with lower-case
// keywords, plus the label used when nothing matches. Every pipeline shares
// the same matcher and differs only in the table it is handed.
package classify

import "strings"

// Category is one label and the keywords that select it.
type Category struct {
	Name     string   `toml:"name" validate:"required"`
	Keywords []string `toml:"keywords" validate:"required,min=1,dive,required"`
}

// Table is an ordered category vocabulary. Earlier categories win ties.
type Table struct {
	Categories []Category
	Fallback   string
}

// NewTable copies categories into a table, lower-casing and trimming keywords
// and dropping empty ones.
func NewTable(categories []Category, fallback string) Table {
	out := make([]Category, 0, len(categories))
	for _, cat := range categories {
		keywords := make([]string, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			keywords = append(keywords, kw)
		}
		out = append(out, Category{Name: strings.TrimSpace(cat.Name), Keywords: keywords})
	}
	return Table{Categories: out, Fallback: fallback}
}

// Classify returns the first category, in table order, having a keyword that
// is a substring of the lower-cased key. Matching is deliberately coarse:
// "data" matches inside "metadata".
func (t Table) Classify(key string) string {
	lowered := strings.ToLower(key)
	for _, cat := range t.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lowered, kw) {
				return cat.Name
			}
		}
	}
	return t.Fallback
}

// Names lists the category labels in table order, followed by the fallback.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.Categories)+1)
	for _, cat := range t.Categories {
		names = append(names, cat.Name)
	}
	if t.Fallback != "" {
		names = append(names, t.Fallback)
	}
	return names
}
