// internal/data/book_model.go
package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BookModel stores books in "books" and their genres in the "book_genres"
// join table.
type BookModel struct {
	DB *sql.DB
}

const selectBookWithAuthor = `
		SELECT b.id, b.title, b.summary, b.isbn,
		       a.id, a.first_name, a.family_name, a.date_of_birth, a.date_of_death
		FROM books b
		JOIN authors a ON a.id = b.author_id`

// Insert writes the book and its genre links in one transaction.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	id := uuid.NewString()
	err := withinTx(ctx, m.DB, func(tx *sql.Tx) error {
		query := `
			INSERT INTO books (id, title, author_id, summary, isbn)
			VALUES ($1, $2, $3, $4, $5)`
		_, err := tx.ExecContext(ctx, query, id, book.Title, book.AuthorID, book.Summary, book.ISBN)
		if err != nil {
			return err
		}
		return insertBookGenres(ctx, tx, id, book.GenreIDs)
	})
	if err != nil {
		return err
	}
	book.ID = id
	return nil
}

// Get returns the book with its author and genres joined in.
func (m BookModel) Get(ctx context.Context, id string) (*Book, error) {
	book, err := scanBook(m.DB.QueryRowContext(ctx, selectBookWithAuthor+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if err := m.attachGenres(ctx, []*Book{book}); err != nil {
		return nil, err
	}
	return book, nil
}

func (m BookModel) GetAll(ctx context.Context) ([]*Book, error) {
	return m.list(ctx, selectBookWithAuthor+` ORDER BY b.title ASC`)
}

func (m BookModel) GetAllByAuthor(ctx context.Context, authorID string) ([]*Book, error) {
	return m.list(ctx, selectBookWithAuthor+` WHERE b.author_id = $1 ORDER BY b.title ASC`, authorID)
}

// GetAllByGenre returns every book filed under the genre, with authors and
// the full genre list of each book joined in.
func (m BookModel) GetAllByGenre(ctx context.Context, genreID string) ([]*Book, error) {
	books, err := m.list(ctx, selectBookWithAuthor+`
		WHERE b.id IN (SELECT book_id FROM book_genres WHERE genre_id = $1)
		ORDER BY b.title ASC`, genreID)
	if err != nil {
		return nil, err
	}
	if err := m.attachGenres(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// Update rewrites the book row and replaces its genre links. The id is taken
// from book.ID and never changes.
func (m BookModel) Update(ctx context.Context, book *Book) error {
	return withinTx(ctx, m.DB, func(tx *sql.Tx) error {
		query := `
			UPDATE books
			SET title = $1, author_id = $2, summary = $3, isbn = $4
			WHERE id = $5`
		result, err := tx.ExecContext(ctx, query, book.Title, book.AuthorID, book.Summary, book.ISBN, book.ID)
		if err != nil {
			return err
		}
		if err := checkAffected(result); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM book_genres WHERE book_id = $1`, book.ID); err != nil {
			return err
		}
		return insertBookGenres(ctx, tx, book.ID, book.GenreIDs)
	})
}

func (m BookModel) Count(ctx context.Context) (int, error) {
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT count(*) FROM books`).Scan(&n)
	return n, err
}

func (m BookModel) list(ctx context.Context, query string, args ...any) ([]*Book, error) {
	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// attachGenres loads the genres of every book in one round-trip.
func (m BookModel) attachGenres(ctx context.Context, books []*Book) error {
	if len(books) == 0 {
		return nil
	}

	byID := make(map[string]*Book, len(books))
	ids := make([]string, 0, len(books))
	for _, b := range books {
		b.GenreIDs = []string{}
		b.Genres = []*Genre{}
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query := `
		SELECT bg.book_id, g.id, g.name
		FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id = ANY($1)
		ORDER BY g.name ASC`

	rows, err := m.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID string
			genre  Genre
		)
		if err := rows.Scan(&bookID, &genre.ID, &genre.Name); err != nil {
			return err
		}
		if b, ok := byID[bookID]; ok {
			b.GenreIDs = append(b.GenreIDs, genre.ID)
			b.Genres = append(b.Genres, &genre)
		}
	}
	return rows.Err()
}

func insertBookGenres(ctx context.Context, tx *sql.Tx, bookID string, genreIDs []string) error {
	seen := make(map[string]bool, len(genreIDs))
	for _, genreID := range genreIDs {
		if seen[genreID] {
			continue
		}
		seen[genreID] = true
		_, err := tx.ExecContext(ctx, `INSERT INTO book_genres (book_id, genre_id) VALUES ($1, $2)`, bookID, genreID)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanBook(s scanner) (*Book, error) {
	var (
		book       Book
		author     Author
		born, died sql.NullTime
	)
	err := s.Scan(
		&book.ID, &book.Title, &book.Summary, &book.ISBN,
		&author.ID, &author.FirstName, &author.FamilyName, &born, &died,
	)
	if err != nil {
		return nil, err
	}
	author.DateOfBirth = timeFromNull(born)
	author.DateOfDeath = timeFromNull(died)
	book.AuthorID = author.ID
	book.Author = &author
	return &book, nil
}
