// Package memstore is an in-process implementation of the catalog stores.
// It backs the -store=memory mode and the handler tests.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aoideee/locallibrary/internal/data"
	"github.com/google/uuid"
)

type db struct {
	mu        sync.RWMutex
	authors   map[string]data.Author
	genres    map[string]data.Genre
	books     map[string]data.Book
	instances map[string]data.BookInstance
}

// New returns Models whose four stores share one mutex-guarded database.
func New() data.Models {
	d := &db{
		authors:   make(map[string]data.Author),
		genres:    make(map[string]data.Genre),
		books:     make(map[string]data.Book),
		instances: make(map[string]data.BookInstance),
	}
	return data.Models{
		Authors:       authorStore{d},
		Genres:        genreStore{d},
		Books:         bookStore{d},
		BookInstances: instanceStore{d},
	}
}

// The helpers below expect d.mu to be held.

func (d *db) author(id string) *data.Author {
	a, ok := d.authors[id]
	if !ok {
		return nil
	}
	return &a
}

// book returns a detached copy of the book with its author and genres joined.
func (d *db) book(id string) *data.Book {
	b, ok := d.books[id]
	if !ok {
		return nil
	}
	b.GenreIDs = slices.Clone(b.GenreIDs)
	b.Author = d.author(b.AuthorID)
	b.Genres = []*data.Genre{}
	for _, gid := range b.GenreIDs {
		if g, ok := d.genres[gid]; ok {
			b.Genres = append(b.Genres, &g)
		}
	}
	sort.Slice(b.Genres, func(i, j int) bool { return b.Genres[i].Name < b.Genres[j].Name })
	return &b
}

func (d *db) instance(id string) *data.BookInstance {
	bi, ok := d.instances[id]
	if !ok {
		return nil
	}
	bi.Book = d.book(bi.BookID)
	return &bi
}

func (d *db) checkBookRefs(b *data.Book) error {
	if _, ok := d.authors[b.AuthorID]; !ok {
		return fmt.Errorf("memstore: author %q does not exist", b.AuthorID)
	}
	for _, gid := range b.GenreIDs {
		if _, ok := d.genres[gid]; !ok {
			return fmt.Errorf("memstore: genre %q does not exist", gid)
		}
	}
	return nil
}

func sortBooks(books []*data.Book) {
	sort.SliceStable(books, func(i, j int) bool { return books[i].Title < books[j].Title })
}

type authorStore struct{ d *db }

func (s authorStore) Insert(_ context.Context, author *data.Author) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	author.ID = uuid.NewString()
	s.d.authors[author.ID] = *author
	return nil
}

func (s authorStore) Get(_ context.Context, id string) (*data.Author, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	a := s.d.author(id)
	if a == nil {
		return nil, data.ErrRecordNotFound
	}
	return a, nil
}

func (s authorStore) GetAll(_ context.Context) ([]*data.Author, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	authors := make([]*data.Author, 0, len(s.d.authors))
	for id := range s.d.authors {
		authors = append(authors, s.d.author(id))
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].FamilyName != authors[j].FamilyName {
			return authors[i].FamilyName < authors[j].FamilyName
		}
		return authors[i].FirstName < authors[j].FirstName
	})
	return authors, nil
}

func (s authorStore) Update(_ context.Context, author *data.Author) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.authors[author.ID]; !ok {
		return data.ErrRecordNotFound
	}
	s.d.authors[author.ID] = *author
	return nil
}

func (s authorStore) Count(_ context.Context) (int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return len(s.d.authors), nil
}

type genreStore struct{ d *db }

func (s genreStore) Insert(_ context.Context, genre *data.Genre) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	genre.ID = uuid.NewString()
	s.d.genres[genre.ID] = *genre
	return nil
}

func (s genreStore) Get(_ context.Context, id string) (*data.Genre, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	g, ok := s.d.genres[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return &g, nil
}

func (s genreStore) GetByName(_ context.Context, name string) (*data.Genre, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	for _, g := range s.d.genres {
		if g.Name == name {
			return &g, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

func (s genreStore) GetAll(_ context.Context) ([]*data.Genre, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	genres := make([]*data.Genre, 0, len(s.d.genres))
	for _, g := range s.d.genres {
		genres = append(genres, &g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

func (s genreStore) Update(_ context.Context, genre *data.Genre) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.genres[genre.ID]; !ok {
		return data.ErrRecordNotFound
	}
	s.d.genres[genre.ID] = *genre
	return nil
}

// Delete checks for referencing books and removes the genre under the same
// write lock.
func (s genreStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.genres[id]; !ok {
		return data.ErrRecordNotFound
	}
	for _, b := range s.d.books {
		if b.HasGenre(id) {
			return data.ErrGenreInUse
		}
	}
	delete(s.d.genres, id)
	return nil
}

func (s genreStore) Count(_ context.Context) (int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return len(s.d.genres), nil
}

type bookStore struct{ d *db }

func (s bookStore) Insert(_ context.Context, book *data.Book) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.d.checkBookRefs(book); err != nil {
		return err
	}
	book.ID = uuid.NewString()
	s.d.books[book.ID] = stripBook(book)
	return nil
}

func (s bookStore) Get(_ context.Context, id string) (*data.Book, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	b := s.d.book(id)
	if b == nil {
		return nil, data.ErrRecordNotFound
	}
	return b, nil
}

func (s bookStore) GetAll(_ context.Context) ([]*data.Book, error) {
	return s.filter(func(data.Book) bool { return true }), nil
}

func (s bookStore) GetAllByAuthor(_ context.Context, authorID string) ([]*data.Book, error) {
	return s.filter(func(b data.Book) bool { return b.AuthorID == authorID }), nil
}

func (s bookStore) GetAllByGenre(_ context.Context, genreID string) ([]*data.Book, error) {
	return s.filter(func(b data.Book) bool { return b.HasGenre(genreID) }), nil
}

func (s bookStore) filter(keep func(data.Book) bool) []*data.Book {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	books := []*data.Book{}
	for id, b := range s.d.books {
		if keep(b) {
			books = append(books, s.d.book(id))
		}
	}
	sortBooks(books)
	return books
}

func (s bookStore) Update(_ context.Context, book *data.Book) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.books[book.ID]; !ok {
		return data.ErrRecordNotFound
	}
	if err := s.d.checkBookRefs(book); err != nil {
		return err
	}
	s.d.books[book.ID] = stripBook(book)
	return nil
}

func (s bookStore) Count(_ context.Context) (int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return len(s.d.books), nil
}

// stripBook returns the persisted shape of b: references by id only.
func stripBook(b *data.Book) data.Book {
	stored := *b
	stored.GenreIDs = slices.Clone(b.GenreIDs)
	stored.Author = nil
	stored.Genres = nil
	return stored
}

type instanceStore struct{ d *db }

func (s instanceStore) Insert(_ context.Context, instance *data.BookInstance) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.books[instance.BookID]; !ok {
		return fmt.Errorf("memstore: book %q does not exist", instance.BookID)
	}
	instance.ID = uuid.NewString()
	stored := *instance
	stored.Book = nil
	s.d.instances[instance.ID] = stored
	return nil
}

func (s instanceStore) Get(_ context.Context, id string) (*data.BookInstance, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	bi := s.d.instance(id)
	if bi == nil {
		return nil, data.ErrRecordNotFound
	}
	return bi, nil
}

func (s instanceStore) GetAll(_ context.Context) ([]*data.BookInstance, error) {
	return s.filter(func(data.BookInstance) bool { return true }), nil
}

func (s instanceStore) GetAllByBook(_ context.Context, bookID string) ([]*data.BookInstance, error) {
	return s.filter(func(bi data.BookInstance) bool { return bi.BookID == bookID }), nil
}

func (s instanceStore) filter(keep func(data.BookInstance) bool) []*data.BookInstance {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	instances := []*data.BookInstance{}
	for id, bi := range s.d.instances {
		if keep(bi) {
			instances = append(instances, s.d.instance(id))
		}
	}
	sort.Slice(instances, func(i, j int) bool {
		if !instances[i].DueBack.Equal(instances[j].DueBack) {
			return instances[i].DueBack.Before(instances[j].DueBack)
		}
		return instances[i].ID < instances[j].ID
	})
	return instances
}

func (s instanceStore) Update(_ context.Context, instance *data.BookInstance) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.instances[instance.ID]; !ok {
		return data.ErrRecordNotFound
	}
	if _, ok := s.d.books[instance.BookID]; !ok {
		return fmt.Errorf("memstore: book %q does not exist", instance.BookID)
	}
	stored := *instance
	stored.Book = nil
	s.d.instances[instance.ID] = stored
	return nil
}

func (s instanceStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.instances[id]; !ok {
		return data.ErrRecordNotFound
	}
	delete(s.d.instances, id)
	return nil
}

func (s instanceStore) Count(_ context.Context) (int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return len(s.d.instances), nil
}

func (s instanceStore) CountByStatus(_ context.Context, status data.Status) (int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	n := 0
	for _, bi := range s.d.instances {
		if bi.Status == status {
			n++
		}
	}
	return n, nil
}
