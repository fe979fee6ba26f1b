// internal/data/bookinstance_model.go
package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// BookInstanceModel stores copies in the "book_instances" table.
type BookInstanceModel struct {
	DB *sql.DB
}

const selectInstanceWithBook = `
		SELECT bi.id, bi.imprint, bi.status, bi.due_back,
		       b.id, b.title, b.author_id, b.summary, b.isbn
		FROM book_instances bi
		JOIN books b ON b.id = bi.book_id`

func (m BookInstanceModel) Insert(ctx context.Context, instance *BookInstance) error {
	query := `
		INSERT INTO book_instances (id, book_id, imprint, status, due_back)
		VALUES ($1, $2, $3, $4, $5)`

	id := uuid.NewString()
	_, err := m.DB.ExecContext(ctx, query, id, instance.BookID, instance.Imprint, string(instance.Status), instance.DueBack)
	if err != nil {
		return err
	}
	instance.ID = id
	return nil
}

// Get returns the copy with its book joined in, or ErrRecordNotFound.
func (m BookInstanceModel) Get(ctx context.Context, id string) (*BookInstance, error) {
	instance, err := scanInstance(m.DB.QueryRowContext(ctx, selectInstanceWithBook+` WHERE bi.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return instance, nil
}

func (m BookInstanceModel) GetAll(ctx context.Context) ([]*BookInstance, error) {
	return m.list(ctx, selectInstanceWithBook+` ORDER BY bi.due_back ASC, bi.id ASC`)
}

func (m BookInstanceModel) GetAllByBook(ctx context.Context, bookID string) ([]*BookInstance, error) {
	return m.list(ctx, selectInstanceWithBook+` WHERE bi.book_id = $1 ORDER BY bi.due_back ASC, bi.id ASC`, bookID)
}

func (m BookInstanceModel) Update(ctx context.Context, instance *BookInstance) error {
	query := `
		UPDATE book_instances
		SET book_id = $1, imprint = $2, status = $3, due_back = $4
		WHERE id = $5`

	result, err := m.DB.ExecContext(ctx, query,
		instance.BookID, instance.Imprint, string(instance.Status), instance.DueBack, instance.ID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (m BookInstanceModel) Delete(ctx context.Context, id string) error {
	result, err := m.DB.ExecContext(ctx, `DELETE FROM book_instances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (m BookInstanceModel) Count(ctx context.Context) (int, error) {
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT count(*) FROM book_instances`).Scan(&n)
	return n, err
}

// CountByStatus counts copies currently in the given status.
func (m BookInstanceModel) CountByStatus(ctx context.Context, status Status) (int, error) {
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT count(*) FROM book_instances WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func (m BookInstanceModel) list(ctx context.Context, query string, args ...any) ([]*BookInstance, error) {
	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := []*BookInstance{}
	for rows.Next() {
		instance, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return instances, nil
}

func scanInstance(s scanner) (*BookInstance, error) {
	var (
		instance BookInstance
		book     Book
		status   string
	)
	err := s.Scan(
		&instance.ID, &instance.Imprint, &status, &instance.DueBack,
		&book.ID, &book.Title, &book.AuthorID, &book.Summary, &book.ISBN,
	)
	if err != nil {
		return nil, err
	}
	instance.Status = Status(status)
	instance.BookID = book.ID
	instance.Book = &book
	return &instance, nil
}
