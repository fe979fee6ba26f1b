package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/aoideee/locallibrary/internal/data/memstore"
	"github.com/stretchr/testify/require"
)

// newTestApp returns an application backed by an empty in-memory store with
// logging discarded and rate limiting off.
func newTestApp(t *testing.T) *applicationDependencies {
	t.Helper()

	cache, err := newTemplateCache()
	require.NoError(t, err)

	return &applicationDependencies{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		logWriter:     io.Discard,
		models:        memstore.New(),
		templateCache: cache,
		ping:          func(context.Context) error { return nil },
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func seedAuthor(t *testing.T, app *applicationDependencies, first, family string) *data.Author {
	t.Helper()
	a := &data.Author{FirstName: first, FamilyName: family}
	require.NoError(t, app.models.Authors.Insert(context.Background(), a))
	return a
}

func seedGenre(t *testing.T, app *applicationDependencies, name string) *data.Genre {
	t.Helper()
	g := &data.Genre{Name: name}
	require.NoError(t, app.models.Genres.Insert(context.Background(), g))
	return g
}

func seedBook(t *testing.T, app *applicationDependencies, title string, author *data.Author, genres ...*data.Genre) *data.Book {
	t.Helper()
	b := &data.Book{
		Title:    title,
		AuthorID: author.ID,
		Summary:  "A summary of " + title,
		ISBN:     "9780000000000",
		GenreIDs: []string{},
	}
	for _, g := range genres {
		b.GenreIDs = append(b.GenreIDs, g.ID)
	}
	require.NoError(t, app.models.Books.Insert(context.Background(), b))
	return b
}

func seedInstance(t *testing.T, app *applicationDependencies, book *data.Book, status data.Status) *data.BookInstance {
	t.Helper()
	bi := data.NewBookInstance()
	bi.BookID = book.ID
	bi.Imprint = "Gollancz, 2011"
	bi.Status = status
	require.NoError(t, app.models.BookInstances.Insert(context.Background(), bi))
	return bi
}
