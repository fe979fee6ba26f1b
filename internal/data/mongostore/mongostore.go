// Package mongostore keeps the catalog in MongoDB. Each entity type lives in
// its own collection and references are stored as ObjectIDs; joins are
// resolved with follow-up $in queries.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aoideee/locallibrary/internal/data"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a client for uri and pings the primary with a 5-second
// timeout.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// New returns Models backed by the collections of db.
func New(db *mongo.Database) data.Models {
	s := &store{
		authors:   db.Collection(authorsCollection),
		genres:    db.Collection(genresCollection),
		books:     db.Collection(booksCollection),
		instances: db.Collection(instancesCollection),
	}
	return data.Models{
		Authors:       authorStore{s},
		Genres:        genreStore{s},
		Books:         bookStore{s},
		BookInstances: instanceStore{s},
	}
}

type store struct {
	authors   *mongo.Collection
	genres    *mongo.Collection
	books     *mongo.Collection
	instances *mongo.Collection
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	docs := []T{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, data.ErrRecordNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func count(ctx context.Context, coll *mongo.Collection, filter any) (int, error) {
	n, err := coll.CountDocuments(ctx, filter)
	return int(n), err
}

func sortBy(fields ...string) *options.FindOptions {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return options.Find().SetSort(keys)
}

func replace(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return data.ErrRecordNotFound
	}
	return nil
}

func remove(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return data.ErrRecordNotFound
	}
	return nil
}

// authorsByID fetches the given authors keyed by hex id.
func (s *store) authorsByID(ctx context.Context, ids []primitive.ObjectID) (map[string]*data.Author, error) {
	out := make(map[string]*data.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	docs, err := findAll[authorDoc](ctx, s.authors, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID.Hex()] = d.model()
	}
	return out, nil
}

func (s *store) genresByID(ctx context.Context, ids []primitive.ObjectID) (map[string]*data.Genre, error) {
	out := make(map[string]*data.Genre, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	docs, err := findAll[genreDoc](ctx, s.genres, bson.M{"_id": bson.M{"$in": ids}}, sortBy("name"))
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID.Hex()] = d.model()
	}
	return out, nil
}

// populate converts book documents to models with authors joined and, when
// withGenres is set, genres too.
func (s *store) populate(ctx context.Context, docs []bookDoc, withGenres bool) ([]*data.Book, error) {
	var authorIDs, genreIDs []primitive.ObjectID
	for _, d := range docs {
		authorIDs = append(authorIDs, d.Author)
		genreIDs = append(genreIDs, d.Genre...)
	}

	authors, err := s.authorsByID(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	genres := map[string]*data.Genre{}
	if withGenres {
		if genres, err = s.genresByID(ctx, genreIDs); err != nil {
			return nil, err
		}
	}

	books := make([]*data.Book, 0, len(docs))
	for _, d := range docs {
		b := d.model()
		b.Author = authors[b.AuthorID]
		if withGenres {
			b.Genres = []*data.Genre{}
			for _, gid := range b.GenreIDs {
				if g, ok := genres[gid]; ok {
					b.Genres = append(b.Genres, g)
				}
			}
			sort.Slice(b.Genres, func(i, j int) bool { return b.Genres[i].Name < b.Genres[j].Name })
		}
		books = append(books, b)
	}
	return books, nil
}

type authorStore struct{ s *store }

func (a authorStore) Insert(ctx context.Context, author *data.Author) error {
	doc := authorDoc{
		ID:          primitive.NewObjectID(),
		FirstName:   author.FirstName,
		FamilyName:  author.FamilyName,
		DateOfBirth: author.DateOfBirth,
		DateOfDeath: author.DateOfDeath,
	}
	if _, err := a.s.authors.InsertOne(ctx, doc); err != nil {
		return err
	}
	author.ID = doc.ID.Hex()
	return nil
}

func (a authorStore) Get(ctx context.Context, id string) (*data.Author, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[authorDoc](ctx, a.s.authors, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (a authorStore) GetAll(ctx context.Context) ([]*data.Author, error) {
	docs, err := findAll[authorDoc](ctx, a.s.authors, bson.D{}, sortBy("family_name", "first_name"))
	if err != nil {
		return nil, err
	}
	authors := make([]*data.Author, 0, len(docs))
	for _, d := range docs {
		authors = append(authors, d.model())
	}
	return authors, nil
}

func (a authorStore) Update(ctx context.Context, author *data.Author) error {
	oid, err := objectID(author.ID)
	if err != nil {
		return err
	}
	return replace(ctx, a.s.authors, oid, authorDoc{
		ID:          oid,
		FirstName:   author.FirstName,
		FamilyName:  author.FamilyName,
		DateOfBirth: author.DateOfBirth,
		DateOfDeath: author.DateOfDeath,
	})
}

func (a authorStore) Count(ctx context.Context) (int, error) {
	return count(ctx, a.s.authors, bson.D{})
}

type genreStore struct{ s *store }

func (g genreStore) Insert(ctx context.Context, genre *data.Genre) error {
	doc := genreDoc{ID: primitive.NewObjectID(), Name: genre.Name}
	if _, err := g.s.genres.InsertOne(ctx, doc); err != nil {
		return err
	}
	genre.ID = doc.ID.Hex()
	return nil
}

func (g genreStore) Get(ctx context.Context, id string) (*data.Genre, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[genreDoc](ctx, g.s.genres, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (g genreStore) GetByName(ctx context.Context, name string) (*data.Genre, error) {
	doc, err := findOne[genreDoc](ctx, g.s.genres, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (g genreStore) GetAll(ctx context.Context) ([]*data.Genre, error) {
	docs, err := findAll[genreDoc](ctx, g.s.genres, bson.D{}, sortBy("name"))
	if err != nil {
		return nil, err
	}
	genres := make([]*data.Genre, 0, len(docs))
	for _, d := range docs {
		genres = append(genres, d.model())
	}
	return genres, nil
}

func (g genreStore) Update(ctx context.Context, genre *data.Genre) error {
	oid, err := objectID(genre.ID)
	if err != nil {
		return err
	}
	return replace(ctx, g.s.genres, oid, genreDoc{ID: oid, Name: genre.Name})
}

// Delete refuses while any book lists the genre. Without a multi-document
// transaction a book created between the count and the delete can still
// end up referencing a removed genre.
func (g genreStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	n, err := count(ctx, g.s.books, bson.M{"genre": oid})
	if err != nil {
		return err
	}
	if n > 0 {
		return data.ErrGenreInUse
	}
	return remove(ctx, g.s.genres, oid)
}

func (g genreStore) Count(ctx context.Context) (int, error) {
	return count(ctx, g.s.genres, bson.D{})
}

type bookStore struct{ s *store }

func (b bookStore) doc(book *data.Book, id primitive.ObjectID) (bookDoc, error) {
	author, err := primitive.ObjectIDFromHex(book.AuthorID)
	if err != nil {
		return bookDoc{}, fmt.Errorf("mongostore: invalid author id %q", book.AuthorID)
	}
	genres, err := objectIDs(book.GenreIDs)
	if err != nil {
		return bookDoc{}, fmt.Errorf("mongostore: invalid genre id: %w", err)
	}
	return bookDoc{
		ID:      id,
		Title:   book.Title,
		Author:  author,
		Summary: book.Summary,
		ISBN:    book.ISBN,
		Genre:   genres,
	}, nil
}

func (b bookStore) Insert(ctx context.Context, book *data.Book) error {
	doc, err := b.doc(book, primitive.NewObjectID())
	if err != nil {
		return err
	}
	if _, err := b.s.books.InsertOne(ctx, doc); err != nil {
		return err
	}
	book.ID = doc.ID.Hex()
	return nil
}

func (b bookStore) Get(ctx context.Context, id string) (*data.Book, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[bookDoc](ctx, b.s.books, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	books, err := b.s.populate(ctx, []bookDoc{*doc}, true)
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

func (b bookStore) GetAll(ctx context.Context) ([]*data.Book, error) {
	return b.list(ctx, bson.D{}, false)
}

func (b bookStore) GetAllByAuthor(ctx context.Context, authorID string) ([]*data.Book, error) {
	oid, err := objectID(authorID)
	if err != nil {
		return []*data.Book{}, nil
	}
	return b.list(ctx, bson.M{"author": oid}, false)
}

func (b bookStore) GetAllByGenre(ctx context.Context, genreID string) ([]*data.Book, error) {
	oid, err := objectID(genreID)
	if err != nil {
		return []*data.Book{}, nil
	}
	return b.list(ctx, bson.M{"genre": oid}, true)
}

func (b bookStore) list(ctx context.Context, filter any, withGenres bool) ([]*data.Book, error) {
	docs, err := findAll[bookDoc](ctx, b.s.books, filter, sortBy("title"))
	if err != nil {
		return nil, err
	}
	return b.s.populate(ctx, docs, withGenres)
}

func (b bookStore) Update(ctx context.Context, book *data.Book) error {
	oid, err := objectID(book.ID)
	if err != nil {
		return err
	}
	doc, err := b.doc(book, oid)
	if err != nil {
		return err
	}
	return replace(ctx, b.s.books, oid, doc)
}

func (b bookStore) Count(ctx context.Context) (int, error) {
	return count(ctx, b.s.books, bson.D{})
}

type instanceStore struct{ s *store }

func (i instanceStore) doc(instance *data.BookInstance, id primitive.ObjectID) (instanceDoc, error) {
	book, err := primitive.ObjectIDFromHex(instance.BookID)
	if err != nil {
		return instanceDoc{}, fmt.Errorf("mongostore: invalid book id %q", instance.BookID)
	}
	return instanceDoc{
		ID:      id,
		Book:    book,
		Imprint: instance.Imprint,
		Status:  string(instance.Status),
		DueBack: instance.DueBack,
	}, nil
}

func (i instanceStore) Insert(ctx context.Context, instance *data.BookInstance) error {
	doc, err := i.doc(instance, primitive.NewObjectID())
	if err != nil {
		return err
	}
	if _, err := i.s.instances.InsertOne(ctx, doc); err != nil {
		return err
	}
	instance.ID = doc.ID.Hex()
	return nil
}

func (i instanceStore) Get(ctx context.Context, id string) (*data.BookInstance, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[instanceDoc](ctx, i.s.instances, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	instances, err := i.join(ctx, []instanceDoc{*doc})
	if err != nil {
		return nil, err
	}
	return instances[0], nil
}

func (i instanceStore) GetAll(ctx context.Context) ([]*data.BookInstance, error) {
	return i.list(ctx, bson.D{})
}

func (i instanceStore) GetAllByBook(ctx context.Context, bookID string) ([]*data.BookInstance, error) {
	oid, err := objectID(bookID)
	if err != nil {
		return []*data.BookInstance{}, nil
	}
	return i.list(ctx, bson.M{"book": oid})
}

func (i instanceStore) list(ctx context.Context, filter any) ([]*data.BookInstance, error) {
	docs, err := findAll[instanceDoc](ctx, i.s.instances, filter, sortBy("due_back", "_id"))
	if err != nil {
		return nil, err
	}
	return i.join(ctx, docs)
}

// join attaches each copy's book.
func (i instanceStore) join(ctx context.Context, docs []instanceDoc) ([]*data.BookInstance, error) {
	bookIDs := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		bookIDs = append(bookIDs, d.Book)
	}

	books := map[string]*data.Book{}
	if len(bookIDs) > 0 {
		bookDocs, err := findAll[bookDoc](ctx, i.s.books, bson.M{"_id": bson.M{"$in": bookIDs}})
		if err != nil {
			return nil, err
		}
		for _, d := range bookDocs {
			books[d.ID.Hex()] = d.model()
		}
	}

	instances := make([]*data.BookInstance, 0, len(docs))
	for _, d := range docs {
		bi := d.model()
		bi.Book = books[bi.BookID]
		instances = append(instances, bi)
	}
	return instances, nil
}

func (i instanceStore) Update(ctx context.Context, instance *data.BookInstance) error {
	oid, err := objectID(instance.ID)
	if err != nil {
		return err
	}
	doc, err := i.doc(instance, oid)
	if err != nil {
		return err
	}
	return replace(ctx, i.s.instances, oid, doc)
}

func (i instanceStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return remove(ctx, i.s.instances, oid)
}

func (i instanceStore) Count(ctx context.Context) (int, error) {
	return count(ctx, i.s.instances, bson.D{})
}

func (i instanceStore) CountByStatus(ctx context.Context, status data.Status) (int, error) {
	return count(ctx, i.s.instances, bson.M{"status": string(status)})
}
