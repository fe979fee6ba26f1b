// cmd/web/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/julienschmidt/httprouter"
)

// idRX matches the store-assigned ids of every backend (UUIDs, ObjectID hex).
var idRX = regexp.MustCompile(`^[0-9a-zA-Z_\-]+$`)

// readIDParam extracts and validates the ":id" URL parameter added by httprouter.
func (app *applicationDependencies) readIDParam(r *http.Request) (string, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("id")
	if !idRX.MatchString(id) {
		return "", errors.New("invalid id parameter")
	}
	return id, nil
}

// readStrings returns every value submitted for key, in submission order.
// An absent key yields an empty slice and a single value a one-element
// slice, so callers never have to care which of the three shapes arrived.
func readStrings(form url.Values, key string) []string {
	values := form[key]
	out := make([]string, 0, len(values))
	return append(out, values...)
}

// render executes the named page into a buffer first, so a template error
// turns into a clean 500 instead of a half-written page.
func (app *applicationDependencies) render(w http.ResponseWriter, r *http.Request, status int, page string, td templateData) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.serverErrorResponse(w, r, fmt.Errorf("the template %s does not exist", page))
		return
	}

	buf := new(bytes.Buffer)
	err := ts.ExecuteTemplate(buf, "base", td)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// parseForm parses the urlencoded body, capping it at 1 MB.
func (app *applicationDependencies) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	return r.ParseForm()
}

// fetchError answers a failed store read: 404 for a missing record,
// 500 for everything else.
func (app *applicationDependencies) fetchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// genreChoices pairs every genre with whether its id is in selected.
func genreChoices(genres []*data.Genre, selected []string) []genreChoice {
	checked := make(map[string]bool, len(selected))
	for _, id := range selected {
		checked[id] = true
	}
	choices := make([]genreChoice, 0, len(genres))
	for _, g := range genres {
		choices = append(choices, genreChoice{ID: g.ID, Name: g.Name, Checked: checked[g.ID]})
	}
	return choices
}
