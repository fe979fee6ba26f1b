// internal/data/genre.go
package data

// Genre is a category a book can be filed under. Names are unique by
// convention only: the create flow looks up an existing genre by name
// before inserting.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// URL is the path of the genre's detail page.
func (g *Genre) URL() string {
	return "/catalog/genre/" + g.ID
}
