// cmd/web/home.go
package main

import (
	"net/http"

	"github.com/aoideee/locallibrary/internal/data"
	"golang.org/x/sync/errgroup"
)

// homeHandler handles GET /catalog/.
// It counts all four collections plus the available copies concurrently.
// A failed count does not abort the page: the first error is shown in place
// of the counts.
func (app *applicationDependencies) homeHandler(w http.ResponseWriter, r *http.Request) {
	var counts catalogCounts

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		counts.Books, err = app.models.Books.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstances, err = app.models.BookInstances.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstancesAvailable, err = app.models.BookInstances.CountByStatus(ctx, data.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		counts.Authors, err = app.models.Authors.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Genres, err = app.models.Genres.Count(ctx)
		return err
	})

	td := templateData{Title: "Local Library Home"}
	if err := g.Wait(); err != nil {
		app.logError(r, err)
		td.Error = err.Error()
	} else {
		td.Counts = &counts
	}

	app.render(w, r, http.StatusOK, "home.tmpl", td)
}
