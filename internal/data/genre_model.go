// internal/data/genre_model.go
package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// GenreModel stores genres in the "genres" table.
type GenreModel struct {
	DB *sql.DB
}

func (m GenreModel) Insert(ctx context.Context, genre *Genre) error {
	id := uuid.NewString()
	_, err := m.DB.ExecContext(ctx, `INSERT INTO genres (id, name) VALUES ($1, $2)`, id, genre.Name)
	if err != nil {
		return err
	}
	genre.ID = id
	return nil
}

func (m GenreModel) Get(ctx context.Context, id string) (*Genre, error) {
	return m.getOne(ctx, `SELECT id, name FROM genres WHERE id = $1`, id)
}

// GetByName looks a genre up by exact name match.
func (m GenreModel) GetByName(ctx context.Context, name string) (*Genre, error) {
	return m.getOne(ctx, `SELECT id, name FROM genres WHERE name = $1 LIMIT 1`, name)
}

func (m GenreModel) getOne(ctx context.Context, query string, arg string) (*Genre, error) {
	var genre Genre
	err := m.DB.QueryRowContext(ctx, query, arg).Scan(&genre.ID, &genre.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &genre, nil
}

func (m GenreModel) GetAll(ctx context.Context) ([]*Genre, error) {
	rows, err := m.DB.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []*Genre{}
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, err
		}
		genres = append(genres, &genre)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return genres, nil
}

func (m GenreModel) Update(ctx context.Context, genre *Genre) error {
	result, err := m.DB.ExecContext(ctx, `UPDATE genres SET name = $1 WHERE id = $2`, genre.Name, genre.ID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// Delete removes the genre unless a book still references it. The genre row
// is locked first; inserting a book_genres row needs a key-share lock on the
// same row for its foreign key, so no reference can appear between the check
// and the delete.
func (m GenreModel) Delete(ctx context.Context, id string) error {
	return withinTx(ctx, m.DB, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM genres WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRecordNotFound
			}
			return err
		}

		var inUse bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM book_genres WHERE genre_id = $1)`, id).Scan(&inUse)
		if err != nil {
			return err
		}
		if inUse {
			return ErrGenreInUse
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM genres WHERE id = $1`, id)
		return err
	})
}

func (m GenreModel) Count(ctx context.Context) (int, error) {
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT count(*) FROM genres`).Scan(&n)
	return n, err
}
