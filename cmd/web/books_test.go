package main

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookHandler(t *testing.T) {
	t.Run("no genre submitted", func(t *testing.T) {
		app := newTestApp(t)
		author := seedAuthor(t, app, "Isaac", "Asimov")

		w := postForm(t, app.routes(), "/catalog/book/create", url.Values{
			"title":   {"Foundation"},
			"author":  {author.ID},
			"summary": {"Psychohistory."},
			"isbn":    {"9780553293357"},
		})

		require.Equal(t, http.StatusFound, w.Code)
		books, err := app.models.Books.GetAll(context.Background())
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, books[0].URL(), w.Header().Get("Location"))

		book, err := app.models.Books.Get(context.Background(), books[0].ID)
		require.NoError(t, err)
		assert.Empty(t, book.GenreIDs)
		assert.Empty(t, book.Genres)
		require.NotNil(t, book.Author)
		assert.Equal(t, "Asimov, Isaac", book.Author.Name())
	})

	t.Run("single and multiple genres", func(t *testing.T) {
		app := newTestApp(t)
		author := seedAuthor(t, app, "Isaac", "Asimov")
		scifi := seedGenre(t, app, "Science Fiction")
		classic := seedGenre(t, app, "Classic")

		for _, genres := range [][]string{{scifi.ID}, {scifi.ID, classic.ID}} {
			w := postForm(t, app.routes(), "/catalog/book/create", url.Values{
				"title":   {"Foundation"},
				"author":  {author.ID},
				"summary": {"Psychohistory."},
				"isbn":    {"9780553293357"},
				"genre":   genres,
			})
			require.Equal(t, http.StatusFound, w.Code)
		}

		books, err := app.models.Books.GetAllByGenre(context.Background(), classic.ID)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Len(t, books[0].Genres, 2)

		books, err = app.models.Books.GetAllByGenre(context.Background(), scifi.ID)
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("invalid keeps checked genres", func(t *testing.T) {
		app := newTestApp(t)
		author := seedAuthor(t, app, "Isaac", "Asimov")
		scifi := seedGenre(t, app, "Science Fiction")
		seedGenre(t, app, "Poetry")

		w := postForm(t, app.routes(), "/catalog/book/create", url.Values{
			"title":   {""},
			"author":  {author.ID},
			"summary": {"   "},
			"isbn":    {"9780553293357"},
			"genre":   {scifi.ID},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Title must not be empty.")
		assert.Contains(t, body, "Summary must not be empty.")
		assert.NotContains(t, body, "ISBN must not be empty")
		assert.Contains(t, body, `value="`+scifi.ID+`" checked`)
		assert.Contains(t, body, `value="`+author.ID+`" selected`)

		n, err := app.models.Books.Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestCreateBookFormHandler(t *testing.T) {
	app := newTestApp(t)
	seedAuthor(t, app, "Isaac", "Asimov")
	seedGenre(t, app, "Science Fiction")

	w := get(t, app.routes(), "/catalog/book/create")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asimov, Isaac")
	assert.Contains(t, w.Body.String(), "Science Fiction")
}

func TestShowBookHandler(t *testing.T) {
	app := newTestApp(t)
	author := seedAuthor(t, app, "Isaac", "Asimov")
	scifi := seedGenre(t, app, "Science Fiction")
	book := seedBook(t, app, "Foundation", author, scifi)
	seedInstance(t, app, book, data.StatusAvailable)

	w := get(t, app.routes(), book.URL())
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Title: Foundation")
	assert.Contains(t, body, "Science Fiction")
	assert.Contains(t, body, "Gollancz, 2011")

	w = get(t, app.routes(), "/catalog/book/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBookHandler(t *testing.T) {
	app := newTestApp(t)
	author := seedAuthor(t, app, "Isaac", "Asimov")
	scifi := seedGenre(t, app, "Science Fiction")
	classic := seedGenre(t, app, "Classic")
	book := seedBook(t, app, "Foundation", author, scifi)

	w := get(t, app.routes(), book.URL()+"/update")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="`+scifi.ID+`" checked`)
	assert.NotContains(t, w.Body.String(), `value="`+classic.ID+`" checked`)

	w = postForm(t, app.routes(), book.URL()+"/update", url.Values{
		"title":   {"Foundation and Empire"},
		"author":  {author.ID},
		"summary": {"The Mule."},
		"isbn":    {"9780553293371"},
		"genre":   {classic.ID},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, book.URL(), w.Header().Get("Location"))

	got, err := app.models.Books.Get(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Foundation and Empire", got.Title)
	assert.Equal(t, []string{classic.ID}, got.GenreIDs)

	n, err := app.models.Books.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	w = get(t, app.routes(), "/catalog/book/missing/update")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
