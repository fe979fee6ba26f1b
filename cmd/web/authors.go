// cmd/web/authors.go
// This file contains the HTTP handlers for the author workflows. Deleting
// an author is not supported; see routes.go.
package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/aoideee/locallibrary/internal/validator"
	"golang.org/x/sync/errgroup"
)

// authorForm holds the sanitized values of an author submission. Dates stay
// strings so a rejected value is shown back to the user as typed.
type authorForm struct {
	FirstName   string
	FamilyName  string
	DateOfBirth string
	DateOfDeath string
}

func authorFormFrom(a *data.Author) authorForm {
	return authorForm{
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: a.DateOfBirthInput(),
		DateOfDeath: a.DateOfDeathInput(),
	}
}

// readAuthorForm validates the submission and, when it is valid, returns the
// author it describes.
func readAuthorForm(form url.Values) (authorForm, *data.Author, *validator.Validator) {
	v := validator.New()

	first := strings.TrimSpace(form.Get("first_name"))
	family := strings.TrimSpace(form.Get("family_name"))
	born := strings.TrimSpace(form.Get("date_of_birth"))
	died := strings.TrimSpace(form.Get("date_of_death"))

	v.Check(validator.NotBlank(first), "first_name", "First name must be specified.")
	v.Check(validator.MaxChars(first, 100), "first_name", "First name must not be more than 100 characters long.")
	v.Check(validator.NotBlank(family), "family_name", "Family name must be specified.")
	v.Check(validator.MaxChars(family, 100), "family_name", "Family name must not be more than 100 characters long.")
	v.Check(validator.OptionalDate(born), "date_of_birth", "Invalid date of birth")
	v.Check(validator.OptionalDate(died), "date_of_death", "Invalid date of death")

	f := authorForm{
		FirstName:   validator.Escape(first),
		FamilyName:  validator.Escape(family),
		DateOfBirth: validator.Escape(born),
		DateOfDeath: validator.Escape(died),
	}
	if !v.Valid() {
		return f, nil, v
	}

	// Both dates passed OptionalDate, so parsing cannot fail here.
	dob, _ := data.ParseDate(born)
	dod, _ := data.ParseDate(died)
	return f, &data.Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: dob,
		DateOfDeath: dod,
	}, v
}

// listAuthorsHandler handles GET /catalog/authors.
func (app *applicationDependencies) listAuthorsHandler(w http.ResponseWriter, r *http.Request) {
	authors, err := app.models.Authors.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "author_list.tmpl", templateData{Title: "Author List", Authors: authors})
}

// showAuthorHandler handles GET /catalog/author/:id.
// The author and their books are fetched concurrently.
func (app *applicationDependencies) showAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var (
		author *data.Author
		books  []*data.Book
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		author, err = app.models.Authors.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = app.models.Books.GetAllByAuthor(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		app.fetchError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "author_detail.tmpl", templateData{
		Title:  "Author Detail",
		Author: author,
		Books:  books,
	})
}

// createAuthorFormHandler handles GET /catalog/author/create.
func (app *applicationDependencies) createAuthorFormHandler(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "author_form.tmpl", templateData{Title: "Create Author", Form: authorForm{}})
}

// createAuthorHandler handles POST /catalog/author/create.
func (app *applicationDependencies) createAuthorHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, author, v := readAuthorForm(r.PostForm)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "author_form.tmpl", templateData{
			Title:  "Create Author",
			Form:   form,
			Errors: v.FieldErrors(),
		})
		return
	}

	if err := app.models.Authors.Insert(r.Context(), author); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, author.URL(), http.StatusFound)
}

// updateAuthorFormHandler handles GET /catalog/author/:id/update.
func (app *applicationDependencies) updateAuthorFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	author, err := app.models.Authors.Get(r.Context(), id)
	if err != nil {
		app.fetchError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "author_form.tmpl", templateData{
		Title: "Update Author",
		Form:  authorFormFrom(author),
	})
}

// updateAuthorHandler handles POST /catalog/author/:id/update.
func (app *applicationDependencies) updateAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, author, v := readAuthorForm(r.PostForm)
	if !v.Valid() {
		app.render(w, r, http.StatusUnprocessableEntity, "author_form.tmpl", templateData{
			Title:  "Update Author",
			Form:   form,
			Errors: v.FieldErrors(),
		})
		return
	}

	author.ID = id
	if err := app.models.Authors.Update(r.Context(), author); err != nil {
		app.fetchError(w, r, err)
		return
	}
	http.Redirect(w, r, author.URL(), http.StatusFound)
}
