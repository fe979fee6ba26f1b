// Package data provides the catalog entities and the stores that persist
// them for the library application.
package data

// Book represents a title held by the library. AuthorID and GenreIDs are
// what gets persisted; Author and Genres are filled in by store reads that
// join the related records.
type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	AuthorID string   `json:"author_id"`
	Summary  string   `json:"summary"`
	ISBN     string   `json:"isbn"`
	GenreIDs []string `json:"genre_ids"`

	Author *Author  `json:"author,omitempty"`
	Genres []*Genre `json:"genres,omitempty"`
}

// URL is the path of the book's detail page.
func (b *Book) URL() string {
	return "/catalog/book/" + b.ID
}

// HasGenre reports whether id is one of the book's genres.
func (b *Book) HasGenre(id string) bool {
	for _, g := range b.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}
