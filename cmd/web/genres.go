// cmd/web/genres.go
// This file contains the HTTP handlers for the genre workflows.
package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/aoideee/locallibrary/internal/validator"
	"golang.org/x/sync/errgroup"
)

// genreForm holds the sanitized values of a genre create/update submission.
type genreForm struct {
	Name string
}

// readGenreForm trims and validates the submitted name, then escapes it.
func readGenreForm(form url.Values) (genreForm, *validator.Validator) {
	v := validator.New()

	name := strings.TrimSpace(form.Get("name"))
	v.Check(validator.MinChars(name, 3), "name", "Genre name must contain at least 3 characters")
	v.Check(validator.MaxChars(name, 100), "name", "Genre name must not be more than 100 characters long")

	return genreForm{Name: validator.Escape(name)}, v
}

// genreWithBooks fetches a genre and the books filed under it concurrently.
func (app *applicationDependencies) genreWithBooks(ctx context.Context, id string) (*data.Genre, []*data.Book, error) {
	var (
		genre *data.Genre
		books []*data.Book
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		genre, err = app.models.Genres.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = app.models.Books.GetAllByGenre(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return genre, books, nil
}

// listGenresHandler handles GET /catalog/genres.
func (app *applicationDependencies) listGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := app.models.Genres.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "genre_list.tmpl", templateData{Title: "Genre List", Genres: genres})
}

// showGenreHandler handles GET /catalog/genre/:id.
func (app *applicationDependencies) showGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	genre, books, err := app.genreWithBooks(r.Context(), id)
	if err != nil {
		app.fetchError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "genre_detail.tmpl", templateData{
		Title: "Genre Detail",
		Genre: genre,
		Books: books,
	})
}

// createGenreFormHandler handles GET /catalog/genre/create.
func (app *applicationDependencies) createGenreFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "genre_form.tmpl", templateData{Title: "Create Genre", Form: genreForm{}})
}

// createGenreHandler handles POST /catalog/genre/create.
// Submitting a name that already exists redirects to the existing genre
// instead of creating a duplicate.
func (app *applicationDependencies) createGenreHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, v := readGenreForm(r.PostForm)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "genre_form.tmpl", templateData{
			Title:  "Create Genre",
			Form:   form,
			Errors: v.FieldErrors(),
		})
		return
	}

	existing, err := app.models.Genres.GetByName(r.Context(), form.Name)
	switch {
	case err == nil:
		http.Redirect(w, r, existing.URL(), http.StatusFound)
		return
	case !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	genre := &data.Genre{Name: form.Name}
	if err := app.models.Genres.Insert(r.Context(), genre); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, genre.URL(), http.StatusFound)
}

// updateGenreFormHandler handles GET /catalog/genre/:id/update.
func (app *applicationDependencies) updateGenreFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	genre, err := app.models.Genres.Get(r.Context(), id)
	if err != nil {
		app.fetchError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "genre_form.tmpl", templateData{
		Title: "Update Genre",
		Form:  genreForm{Name: genre.Name},
	})
}

// updateGenreHandler handles POST /catalog/genre/:id/update.
func (app *applicationDependencies) updateGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, v := readGenreForm(r.PostForm)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "genre_form.tmpl", templateData{
			Title:  "Update Genre",
			Form:   form,
			Errors: v.FieldErrors(),
		})
		return
	}

	genre := &data.Genre{ID: id, Name: form.Name}
	if err := app.models.Genres.Update(r.Context(), genre); err != nil {
		app.fetchError(w, r, err)
		return
	}
	http.Redirect(w, r, genre.URL(), http.StatusFound)
}

// deleteGenreFormHandler handles GET /catalog/genre/:id/delete.
// An unknown genre sends the user back to the genre list.
func (app *applicationDependencies) deleteGenreFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/genres", http.StatusFound)
		return
	}

	genre, books, err := app.genreWithBooks(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			http.Redirect(w, r, "/catalog/genres", http.StatusFound)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "genre_delete.tmpl", templateData{
		Title: "Delete Genre",
		Genre: genre,
		Books: books,
	})
}

// deleteGenreHandler handles POST /catalog/genre/:id/delete.
// While any book references the genre nothing is deleted and the
// confirmation page is shown again with the blocking books.
func (app *applicationDependencies) deleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/genres", http.StatusFound)
		return
	}

	genre, books, err := app.genreWithBooks(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			http.Redirect(w, r, "/catalog/genres", http.StatusFound)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(books) == 0 {
		err = app.models.Genres.Delete(r.Context(), id)
		switch {
		case err == nil, errors.Is(err, data.ErrRecordNotFound):
			http.Redirect(w, r, "/catalog/genres", http.StatusFound)
			return
		case errors.Is(err, data.ErrGenreInUse):
			// A book picked up the genre after the check above.
			books, err = app.models.Books.GetAllByGenre(r.Context(), id)
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}
		default:
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	app.render(w, r, http.StatusConflict, "genre_delete.tmpl", templateData{
		Title: "Delete Genre",
		Genre: genre,
		Books: books,
	})
}
