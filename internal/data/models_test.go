package data

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestAuthorModel_Insert(t *testing.T) {
	db, mock := newMock(t)
	m := AuthorModel{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO authors (id, first_name, family_name, date_of_birth, date_of_death)")).
		WithArgs(sqlmock.AnyArg(), "Jim", "Jones", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	author := &Author{FirstName: "Jim", FamilyName: "Jones"}
	require.NoError(t, m.Insert(context.Background(), author))

	_, err := uuid.Parse(author.ID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorModel_Get(t *testing.T) {
	db, mock := newMock(t)
	m := AuthorModel{DB: db}
	born := time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM authors WHERE id = $1")).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "family_name", "date_of_birth", "date_of_death"}).
			AddRow("a1", "Isaac", "Asimov", born, nil))

	author, err := m.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Asimov, Isaac", author.Name())
	require.NotNil(t, author.DateOfBirth)
	assert.True(t, born.Equal(*author.DateOfBirth))
	assert.Nil(t, author.DateOfDeath)

	mock.ExpectQuery(regexp.QuoteMeta("FROM authors WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "family_name", "date_of_birth", "date_of_death"}))

	_, err = m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorModel_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	m := AuthorModel{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE authors")).
		WithArgs("Jim", "Jones", sqlmock.AnyArg(), sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.Update(context.Background(), &Author{ID: "missing", FirstName: "Jim", FamilyName: "Jones"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreModel_GetByName(t *testing.T) {
	db, mock := newMock(t)
	m := GenreModel{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM genres WHERE name = $1 LIMIT 1")).
		WithArgs("Fantasy").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("g1", "Fantasy"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM genres WHERE name = $1 LIMIT 1")).
		WithArgs("Poetry").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	genre, err := m.GetByName(context.Background(), "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, "g1", genre.ID)

	_, err = m.GetByName(context.Background(), "Poetry")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenreModel_Delete(t *testing.T) {
	lock := regexp.QuoteMeta("SELECT id FROM genres WHERE id = $1 FOR UPDATE")
	exists := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM book_genres WHERE genre_id = $1)")

	t.Run("unused", func(t *testing.T) {
		db, mock := newMock(t)
		m := GenreModel{DB: db}

		mock.ExpectBegin()
		mock.ExpectQuery(lock).WithArgs("g1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("g1"))
		mock.ExpectQuery(exists).WithArgs("g1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM genres WHERE id = $1")).WithArgs("g1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, m.Delete(context.Background(), "g1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in use", func(t *testing.T) {
		db, mock := newMock(t)
		m := GenreModel{DB: db}

		mock.ExpectBegin()
		mock.ExpectQuery(lock).WithArgs("g1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("g1"))
		mock.ExpectQuery(exists).WithArgs("g1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		assert.ErrorIs(t, m.Delete(context.Background(), "g1"), ErrGenreInUse)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		m := GenreModel{DB: db}

		mock.ExpectBegin()
		mock.ExpectQuery(lock).WithArgs("g1").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, m.Delete(context.Background(), "g1"), ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookModel_InsertDedupesGenres(t *testing.T) {
	db, mock := newMock(t)
	m := BookModel{DB: db}
	link := regexp.QuoteMeta("INSERT INTO book_genres (book_id, genre_id) VALUES ($1, $2)")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books (id, title, author_id, summary, isbn)")).
		WithArgs(sqlmock.AnyArg(), "Foundation", "a1", "Psychohistory.", "9780553293357").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(link).WithArgs(sqlmock.AnyArg(), "g1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(link).WithArgs(sqlmock.AnyArg(), "g2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	book := &Book{
		Title:    "Foundation",
		AuthorID: "a1",
		Summary:  "Psychohistory.",
		ISBN:     "9780553293357",
		GenreIDs: []string{"g1", "g2", "g1"},
	}
	require.NoError(t, m.Insert(context.Background(), book))
	assert.NotEmpty(t, book.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookModel_Get(t *testing.T) {
	db, mock := newMock(t)
	m := BookModel{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "summary", "isbn",
			"id", "first_name", "family_name", "date_of_birth", "date_of_death",
		}).AddRow("b1", "Foundation", "Psychohistory.", "9780553293357", "a1", "Isaac", "Asimov", nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE bg.book_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "id", "name"}).
			AddRow("b1", "g2", "Classic").
			AddRow("b1", "g1", "Science Fiction"))

	book, err := m.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "a1", book.AuthorID)
	require.NotNil(t, book.Author)
	assert.Equal(t, "Asimov, Isaac", book.Author.Name())
	assert.Equal(t, []string{"g2", "g1"}, book.GenreIDs)
	require.Len(t, book.Genres, 2)
	assert.Equal(t, "Classic", book.Genres[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookModel_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	m := BookModel{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := m.Update(context.Background(), &Book{ID: "missing", Title: "x", AuthorID: "a1", Summary: "s", ISBN: "i"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInstanceModel_CountByStatus(t *testing.T) {
	db, mock := newMock(t)
	m := BookInstanceModel{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM book_instances WHERE status = $1")).
		WithArgs("Available").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := m.CountByStatus(context.Background(), StatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInstanceModel_GetAllByBook(t *testing.T) {
	db, mock := newMock(t)
	m := BookInstanceModel{DB: db}
	due := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE bi.book_id = $1 ORDER BY bi.due_back ASC, bi.id ASC")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "imprint", "status", "due_back",
			"id", "title", "author_id", "summary", "isbn",
		}).AddRow("i1", "Gnome Press, 1951", "Loaned", due, "b1", "Foundation", "a1", "s", "isbn"))

	instances, err := m.GetAllByBook(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, StatusLoaned, instances[0].Status)
	assert.Equal(t, "b1", instances[0].BookID)
	assert.Equal(t, "Mar 4, 2026", instances[0].DueBackFormatted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInstanceModel_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	m := BookInstanceModel{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM book_instances WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, m.Delete(context.Background(), "missing"), ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
