// cmd/web/books.go
// This file contains the HTTP handlers for the book workflows. Deleting a
// book is not supported; see routes.go.
package main

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/aoideee/locallibrary/internal/validator"
	"golang.org/x/sync/errgroup"
)

// bookForm holds the sanitized values of a book submission. Author is an
// author id and Genre the ids of every checked genre.
type bookForm struct {
	Title   string
	Author  string
	Summary string
	ISBN    string
	Genre   []string
}

func bookFormFrom(b *data.Book) bookForm {
	return bookForm{
		Title:   b.Title,
		Author:  b.AuthorID,
		Summary: b.Summary,
		ISBN:    b.ISBN,
		Genre:   b.GenreIDs,
	}
}

func readBookForm(form url.Values) (bookForm, *validator.Validator) {
	v := validator.New()

	title := strings.TrimSpace(form.Get("title"))
	author := strings.TrimSpace(form.Get("author"))
	summary := strings.TrimSpace(form.Get("summary"))
	isbn := strings.TrimSpace(form.Get("isbn"))

	v.Check(validator.NotBlank(title), "title", "Title must not be empty.")
	v.Check(validator.NotBlank(author), "author", "Author must not be empty.")
	v.Check(validator.NotBlank(summary), "summary", "Summary must not be empty.")
	v.Check(validator.NotBlank(isbn), "isbn", "ISBN must not be empty")

	return bookForm{
		Title:   validator.Escape(title),
		Author:  validator.Escape(author),
		Summary: validator.Escape(summary),
		ISBN:    validator.Escape(isbn),
		Genre:   validator.SanitizeAll(readStrings(form, "genre")),
	}, v
}

func (f bookForm) book() *data.Book {
	return &data.Book{
		Title:    f.Title,
		AuthorID: f.Author,
		Summary:  f.Summary,
		ISBN:     f.ISBN,
		GenreIDs: f.Genre,
	}
}

// bookFormOptions fetches the author and genre lists the book form offers.
func (app *applicationDependencies) bookFormOptions(ctx context.Context) ([]*data.Author, []*data.Genre, error) {
	var (
		authors []*data.Author
		genres  []*data.Genre
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = app.models.Authors.GetAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = app.models.Genres.GetAll(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return authors, genres, nil
}

// renderBookForm re-fetches the form options and renders the book form with
// the given values, marking the checked genres.
func (app *applicationDependencies) renderBookForm(w http.ResponseWriter, r *http.Request, status int, title string, form bookForm, v *validator.Validator) {
	authors, genres, err := app.bookFormOptions(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	td := templateData{
		Title:        title,
		Authors:      authors,
		GenreChoices: genreChoices(genres, form.Genre),
		Form:         form,
	}
	if v != nil {
		td.Errors = v.FieldErrors()
	}
	app.render(w, r, status, "book_form.tmpl", td)
}

// listBooksHandler handles GET /catalog/books.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "book_list.tmpl", templateData{Title: "Book List", Books: books})
}

// showBookHandler handles GET /catalog/book/:id.
// The book (with author and genres) and its copies are fetched concurrently.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var (
		book      *data.Book
		instances []*data.BookInstance
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		book, err = app.models.Books.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		instances, err = app.models.BookInstances.GetAllByBook(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		app.fetchError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "book_detail.tmpl", templateData{
		Title:         book.Title,
		Book:          book,
		BookInstances: instances,
	})
}

// createBookFormHandler handles GET /catalog/book/create.
func (app *applicationDependencies) createBookFormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderBookForm(w, r, http.StatusOK, "Create Book", bookForm{Genre: []string{}}, nil)
}

// createBookHandler handles POST /catalog/book/create.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, v := readBookForm(r.PostForm)
	if !v.Valid() {
		app.renderBookForm(w, r, http.StatusUnprocessableEntity, "Create Book", form, v)
		return
	}

	book := form.book()
	if err := app.models.Books.Insert(r.Context(), book); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, book.URL(), http.StatusFound)
}

// updateBookFormHandler handles GET /catalog/book/:id/update.
// The book's current genres are pre-checked.
func (app *applicationDependencies) updateBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var (
		book    *data.Book
		authors []*data.Author
		genres  []*data.Genre
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		book, err = app.models.Books.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		authors, genres, err = app.bookFormOptions(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		app.fetchError(w, r, err)
		return
	}

	form := bookFormFrom(book)
	app.render(w, r, http.StatusOK, "book_form.tmpl", templateData{
		Title:        "Update Book",
		Authors:      authors,
		GenreChoices: genreChoices(genres, form.Genre),
		Form:         form,
	})
}

// updateBookHandler handles POST /catalog/book/:id/update.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, v := readBookForm(r.PostForm)
	if !v.Valid() {
		app.renderBookForm(w, r, http.StatusUnprocessableEntity, "Update Book", form, v)
		return
	}

	book := form.book()
	book.ID = id
	if err := app.models.Books.Update(r.Context(), book); err != nil {
		app.fetchError(w, r, err)
		return
	}
	http.Redirect(w, r, book.URL(), http.StatusFound)
}
