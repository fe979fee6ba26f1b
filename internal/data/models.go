// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrRecordNotFound is returned when an id does not resolve to a record.
	ErrRecordNotFound = errors.New("record not found")

	// ErrGenreInUse is returned by GenreStore.Delete while at least one book
	// still references the genre.
	ErrGenreInUse = errors.New("genre is referenced by one or more books")
)

// AuthorStore persists authors. GetAll orders by family name, then first name.
type AuthorStore interface {
	Insert(ctx context.Context, author *Author) error
	Get(ctx context.Context, id string) (*Author, error)
	GetAll(ctx context.Context) ([]*Author, error)
	Update(ctx context.Context, author *Author) error
	Count(ctx context.Context) (int, error)
}

// GenreStore persists genres. GetAll orders by name ascending.
type GenreStore interface {
	Insert(ctx context.Context, genre *Genre) error
	Get(ctx context.Context, id string) (*Genre, error)
	GetByName(ctx context.Context, name string) (*Genre, error)
	GetAll(ctx context.Context) ([]*Genre, error)
	Update(ctx context.Context, genre *Genre) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// BookStore persists books. Get and GetAllByGenre join both the author and
// the genres; GetAll and GetAllByAuthor join the author only.
type BookStore interface {
	Insert(ctx context.Context, book *Book) error
	Get(ctx context.Context, id string) (*Book, error)
	GetAll(ctx context.Context) ([]*Book, error)
	GetAllByAuthor(ctx context.Context, authorID string) ([]*Book, error)
	GetAllByGenre(ctx context.Context, genreID string) ([]*Book, error)
	Update(ctx context.Context, book *Book) error
	Count(ctx context.Context) (int, error)
}

// BookInstanceStore persists physical copies. Get and GetAll join the book.
type BookInstanceStore interface {
	Insert(ctx context.Context, instance *BookInstance) error
	Get(ctx context.Context, id string) (*BookInstance, error)
	GetAll(ctx context.Context) ([]*BookInstance, error)
	GetAllByBook(ctx context.Context, bookID string) ([]*BookInstance, error)
	Update(ctx context.Context, instance *BookInstance) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

// Models is the store handle every handler works through. Build one at
// startup with NewModels (Postgres) or one of the other backends and pass it
// into applicationDependencies.
type Models struct {
	Authors       AuthorStore
	Genres        GenreStore
	Books         BookStore
	BookInstances BookInstanceStore
}

// NewModels constructs Postgres-backed Models over the given pool.
func NewModels(db *sql.DB) Models {
	return Models{
		Authors:       AuthorModel{DB: db},
		Genres:        GenreModel{DB: db},
		Books:         BookModel{DB: db},
		BookInstances: BookInstanceModel{DB: db},
	}
}

// withinTx runs fn in a transaction, committing on nil and rolling back on
// error.
func withinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// checkAffected maps a zero-row result onto ErrRecordNotFound.
func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// timeFromNull converts a nullable DATE column into an optional time.
func timeFromNull(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullFromTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
