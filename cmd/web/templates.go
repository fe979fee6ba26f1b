// cmd/web/templates.go
// This file builds the template cache from the embedded ui files and defines
// the data every page receives.
package main

import (
	"html"
	"html/template"
	"io/fs"
	"path/filepath"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/aoideee/locallibrary/internal/validator"
	"github.com/aoideee/locallibrary/ui"
)

// catalogCounts holds the five numbers shown on the home page.
type catalogCounts struct {
	Books                  int
	BookInstances          int
	BookInstancesAvailable int
	Authors                int
	Genres                 int
}

// genreChoice is one checkbox on the book form.
type genreChoice struct {
	ID      string
	Name    string
	Checked bool
}

// templateData is passed to every page. Each page reads only the fields it
// needs; Form holds the typed form struct for create/update views.
type templateData struct {
	Title string
	Error string

	Counts *catalogCounts

	Author  *data.Author
	Authors []*data.Author

	Genre        *data.Genre
	Genres       []*data.Genre
	GenreChoices []genreChoice

	Book  *data.Book
	Books []*data.Book

	BookInstance  *data.BookInstance
	BookInstances []*data.BookInstance
	Statuses      []data.Status

	Form   any
	Errors []validator.FieldError
}

// Stored strings are escaped on the way in; unescape hands html/template the
// original text so it is escaped exactly once on output.
var functions = template.FuncMap{
	"unescape": html.UnescapeString,
}

// newTemplateCache parses every page together with the base layout and the
// partials, keyed by the page's file name (e.g. "book_list.tmpl").
func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		patterns := []string{
			"html/base.tmpl",
			"html/partials/*.tmpl",
			page,
		}

		ts, err := template.New(name).Funcs(functions).ParseFS(ui.Files, patterns...)
		if err != nil {
			return nil, err
		}
		cache[name] = ts
	}

	return cache, nil
}
