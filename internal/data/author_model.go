// internal/data/author_model.go
package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// AuthorModel stores authors in the "authors" table.
type AuthorModel struct {
	DB *sql.DB
}

// Insert allocates a fresh id for author and writes the row.
func (m AuthorModel) Insert(ctx context.Context, author *Author) error {
	query := `
		INSERT INTO authors (id, first_name, family_name, date_of_birth, date_of_death)
		VALUES ($1, $2, $3, $4, $5)`

	id := uuid.NewString()
	_, err := m.DB.ExecContext(ctx, query,
		id,
		author.FirstName,
		author.FamilyName,
		nullFromTime(author.DateOfBirth),
		nullFromTime(author.DateOfDeath),
	)
	if err != nil {
		return err
	}
	author.ID = id
	return nil
}

// Get returns the author with the given id, or ErrRecordNotFound.
func (m AuthorModel) Get(ctx context.Context, id string) (*Author, error) {
	query := `
		SELECT id, first_name, family_name, date_of_birth, date_of_death
		FROM authors
		WHERE id = $1`

	author, err := scanAuthor(m.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return author, nil
}

func (m AuthorModel) GetAll(ctx context.Context) ([]*Author, error) {
	query := `
		SELECT id, first_name, family_name, date_of_birth, date_of_death
		FROM authors
		ORDER BY family_name ASC, first_name ASC`

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return authors, nil
}

// Update overwrites every column of the row whose id is author.ID.
func (m AuthorModel) Update(ctx context.Context, author *Author) error {
	query := `
		UPDATE authors
		SET first_name = $1, family_name = $2, date_of_birth = $3, date_of_death = $4
		WHERE id = $5`

	result, err := m.DB.ExecContext(ctx, query,
		author.FirstName,
		author.FamilyName,
		nullFromTime(author.DateOfBirth),
		nullFromTime(author.DateOfDeath),
		author.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (m AuthorModel) Count(ctx context.Context) (int, error) {
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT count(*) FROM authors`).Scan(&n)
	return n, err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAuthor(s scanner) (*Author, error) {
	var (
		author     Author
		born, died sql.NullTime
	)
	err := s.Scan(&author.ID, &author.FirstName, &author.FamilyName, &born, &died)
	if err != nil {
		return nil, err
	}
	author.DateOfBirth = timeFromNull(born)
	author.DateOfDeath = timeFromNull(died)
	return &author, nil
}
