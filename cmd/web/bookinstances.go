// cmd/web/bookinstances.go
// This file contains the HTTP handlers for the book instance (copy) workflows.
package main

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/aoideee/locallibrary/internal/validator"
	"golang.org/x/sync/errgroup"
)

// bookInstanceForm holds the sanitized values of a copy submission.
type bookInstanceForm struct {
	Book    string
	Imprint string
	Status  string
	DueBack string
}

func bookInstanceFormFrom(bi *data.BookInstance) bookInstanceForm {
	return bookInstanceForm{
		Book:    bi.BookID,
		Imprint: bi.Imprint,
		Status:  string(bi.Status),
		DueBack: bi.DueBackInput(),
	}
}

// readBookInstanceForm validates the submission and, when it is valid,
// returns the copy it describes. A blank status means the default status and
// a blank due date means now.
func readBookInstanceForm(form url.Values) (bookInstanceForm, *data.BookInstance, *validator.Validator) {
	v := validator.New()

	book := strings.TrimSpace(form.Get("book"))
	imprint := strings.TrimSpace(form.Get("imprint"))
	status := strings.TrimSpace(form.Get("status"))
	dueBack := strings.TrimSpace(form.Get("due_back"))

	if status == "" {
		status = string(data.DefaultStatus)
	}
	st, ok := data.ParseStatus(status)

	v.Check(validator.NotBlank(book), "book", "Book must be specified")
	v.Check(validator.NotBlank(imprint), "imprint", "Imprint must be specified")
	v.Check(ok, "status", "Status must be one of Available, Maintenance, Loaned or Reserved")
	v.Check(validator.OptionalDate(dueBack), "due_back", "Invalid date")

	f := bookInstanceForm{
		Book:    validator.Escape(book),
		Imprint: validator.Escape(imprint),
		Status:  validator.Escape(status),
		DueBack: validator.Escape(dueBack),
	}
	if !v.Valid() {
		return f, nil, v
	}

	instance := data.NewBookInstance()
	instance.BookID = f.Book
	instance.Imprint = f.Imprint
	instance.Status = st
	if due, _ := data.ParseDate(dueBack); due != nil {
		instance.DueBack = *due
	}
	return f, instance, v
}

// renderBookInstanceForm fetches the book list and renders the copy form.
func (app *applicationDependencies) renderBookInstanceForm(w http.ResponseWriter, r *http.Request, status int, title string, form bookInstanceForm, v *validator.Validator) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	td := templateData{
		Title:    title,
		Books:    books,
		Statuses: data.Statuses,
		Form:     form,
	}
	if v != nil {
		td.Errors = v.FieldErrors()
	}
	app.render(w, r, status, "bookinstance_form.tmpl", td)
}

// listBookInstancesHandler handles GET /catalog/bookinstances.
func (app *applicationDependencies) listBookInstancesHandler(w http.ResponseWriter, r *http.Request) {
	instances, err := app.models.BookInstances.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "bookinstance_list.tmpl", templateData{
		Title:         "Book Instance List",
		BookInstances: instances,
	})
}

// showBookInstanceHandler handles GET /catalog/bookinstance/:id.
func (app *applicationDependencies) showBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	instance, err := app.models.BookInstances.Get(r.Context(), id)
	if err != nil {
		app.fetchError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "bookinstance_detail.tmpl", templateData{
		Title:        "Book Instance Detail",
		BookInstance: instance,
	})
}

// createBookInstanceFormHandler handles GET /catalog/bookinstance/create.
func (app *applicationDependencies) createBookInstanceFormHandler(w http.ResponseWriter, r *http.Request) {
	form := bookInstanceForm{
		Status:  string(data.DefaultStatus),
		DueBack: time.Now().Format(data.InputDateLayout),
	}
	app.renderBookInstanceForm(w, r, http.StatusOK, "Create BookInstance", form, nil)
}

// createBookInstanceHandler handles POST /catalog/bookinstance/create.
func (app *applicationDependencies) createBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, instance, v := readBookInstanceForm(r.PostForm)
	if !v.Valid() {
		app.renderBookInstanceForm(w, r, http.StatusUnprocessableEntity, "Create BookInstance", form, v)
		return
	}

	if err := app.models.BookInstances.Insert(r.Context(), instance); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, instance.URL(), http.StatusFound)
}

// updateBookInstanceFormHandler handles GET /catalog/bookinstance/:id/update.
func (app *applicationDependencies) updateBookInstanceFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var (
		instance *data.BookInstance
		books    []*data.Book
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		instance, err = app.models.BookInstances.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = app.models.Books.GetAll(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		app.fetchError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "bookinstance_form.tmpl", templateData{
		Title:    "Update BookInstance",
		Books:    books,
		Statuses: data.Statuses,
		Form:     bookInstanceFormFrom(instance),
	})
}

// updateBookInstanceHandler handles POST /catalog/bookinstance/:id/update.
func (app *applicationDependencies) updateBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	if err := app.parseForm(w, r); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, instance, v := readBookInstanceForm(r.PostForm)
	if !v.Valid() {
		app.renderBookInstanceForm(w, r, http.StatusUnprocessableEntity, "Update BookInstance", form, v)
		return
	}

	instance.ID = id
	if err := app.models.BookInstances.Update(r.Context(), instance); err != nil {
		app.fetchError(w, r, err)
		return
	}
	http.Redirect(w, r, instance.URL(), http.StatusFound)
}

// deleteBookInstanceFormHandler handles GET /catalog/bookinstance/:id/delete.
func (app *applicationDependencies) deleteBookInstanceFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/bookinstances", http.StatusFound)
		return
	}

	instance, err := app.models.BookInstances.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			http.Redirect(w, r, "/catalog/bookinstances", http.StatusFound)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "bookinstance_delete.tmpl", templateData{
		Title:        "Delete BookInstance",
		BookInstance: instance,
	})
}

// deleteBookInstanceHandler handles POST /catalog/bookinstance/:id/delete.
// Nothing references a copy, so the delete always goes ahead.
func (app *applicationDependencies) deleteBookInstanceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/catalog/bookinstances", http.StatusFound)
		return
	}

	err = app.models.BookInstances.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, data.ErrRecordNotFound) {
		app.serverErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, "/catalog/bookinstances", http.StatusFound)
}
