// cmd/web/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → logRequests → rateLimit → router
//
// Per entity T in {book, author, genre, bookinstance}:
//
//	GET        /catalog/Ts             list
//	GET        /catalog/T/:id          detail
//	GET, POST  /catalog/T/create       create form / submit
//	GET, POST  /catalog/T/:id/update   update form / submit
//	GET, POST  /catalog/T/:id/delete   delete confirm / submit
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.Handler(http.MethodGet, "/", http.RedirectHandler("/catalog/", http.StatusFound))
	router.HandlerFunc(http.MethodGet, "/healthz", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/", app.homeHandler)

	// Books
	router.HandlerFunc(http.MethodGet, "/catalog/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/book/:id", app.createOr(app.createBookFormHandler, app.showBookHandler))
	router.HandlerFunc(http.MethodPost, "/catalog/book/:id", app.createOr(app.createBookHandler, app.methodNotAllowedResponse))
	router.HandlerFunc(http.MethodGet, "/catalog/book/:id/update", app.updateBookFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/book/:id/update", app.updateBookHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/book/:id/delete", app.notImplemented("Book delete GET"))
	router.HandlerFunc(http.MethodPost, "/catalog/book/:id/delete", app.notImplemented("Book delete POST"))

	// Authors
	router.HandlerFunc(http.MethodGet, "/catalog/authors", app.listAuthorsHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/author/:id", app.createOr(app.createAuthorFormHandler, app.showAuthorHandler))
	router.HandlerFunc(http.MethodPost, "/catalog/author/:id", app.createOr(app.createAuthorHandler, app.methodNotAllowedResponse))
	router.HandlerFunc(http.MethodGet, "/catalog/author/:id/update", app.updateAuthorFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/author/:id/update", app.updateAuthorHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/author/:id/delete", app.notImplemented("Author delete GET"))
	router.HandlerFunc(http.MethodPost, "/catalog/author/:id/delete", app.notImplemented("Author delete POST"))

	// Genres
	router.HandlerFunc(http.MethodGet, "/catalog/genres", app.listGenresHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/genre/:id", app.createOr(app.createGenreFormHandler, app.showGenreHandler))
	router.HandlerFunc(http.MethodPost, "/catalog/genre/:id", app.createOr(app.createGenreHandler, app.methodNotAllowedResponse))
	router.HandlerFunc(http.MethodGet, "/catalog/genre/:id/update", app.updateGenreFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/genre/:id/update", app.updateGenreHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/genre/:id/delete", app.deleteGenreFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/genre/:id/delete", app.deleteGenreHandler)

	// Book instances
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstances", app.listBookInstancesHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstance/:id", app.createOr(app.createBookInstanceFormHandler, app.showBookInstanceHandler))
	router.HandlerFunc(http.MethodPost, "/catalog/bookinstance/:id", app.createOr(app.createBookInstanceHandler, app.methodNotAllowedResponse))
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstance/:id/update", app.updateBookInstanceFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/bookinstance/:id/update", app.updateBookInstanceHandler)
	router.HandlerFunc(http.MethodGet, "/catalog/bookinstance/:id/delete", app.deleteBookInstanceFormHandler)
	router.HandlerFunc(http.MethodPost, "/catalog/bookinstance/:id/delete", app.deleteBookInstanceHandler)

	return app.recoverPanic(app.logRequests(app.rateLimit(router)))
}

// createOr dispatches /catalog/T/create to create and every other id to
// other. httprouter cannot register a static "create" segment next to the
// :id wildcard, so both share one route.
func (app *applicationDependencies) createOr(create, other http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if httprouter.ParamsFromContext(r.Context()).ByName("id") == "create" {
			create(w, r)
			return
		}
		other(w, r)
	}
}

// healthcheckHandler reports whether the store answers a ping.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.ping(r.Context()); err != nil {
		app.logError(r, err)
		http.Error(w, "store not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
