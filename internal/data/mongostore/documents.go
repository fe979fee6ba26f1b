package mongostore

import (
	"time"

	"github.com/aoideee/locallibrary/internal/data"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	authorsCollection   = "authors"
	genresCollection    = "genres"
	booksCollection     = "books"
	instancesCollection = "bookinstances"
)

type authorDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	FirstName   string             `bson:"first_name"`
	FamilyName  string             `bson:"family_name"`
	DateOfBirth *time.Time         `bson:"date_of_birth,omitempty"`
	DateOfDeath *time.Time         `bson:"date_of_death,omitempty"`
}

func (d authorDoc) model() *data.Author {
	return &data.Author{
		ID:          d.ID.Hex(),
		FirstName:   d.FirstName,
		FamilyName:  d.FamilyName,
		DateOfBirth: d.DateOfBirth,
		DateOfDeath: d.DateOfDeath,
	}
}

type genreDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

func (d genreDoc) model() *data.Genre {
	return &data.Genre{ID: d.ID.Hex(), Name: d.Name}
}

type bookDoc struct {
	ID      primitive.ObjectID   `bson:"_id"`
	Title   string               `bson:"title"`
	Author  primitive.ObjectID   `bson:"author"`
	Summary string               `bson:"summary"`
	ISBN    string               `bson:"isbn"`
	Genre   []primitive.ObjectID `bson:"genre"`
}

func (d bookDoc) model() *data.Book {
	b := &data.Book{
		ID:       d.ID.Hex(),
		Title:    d.Title,
		AuthorID: d.Author.Hex(),
		Summary:  d.Summary,
		ISBN:     d.ISBN,
		GenreIDs: make([]string, 0, len(d.Genre)),
	}
	for _, g := range d.Genre {
		b.GenreIDs = append(b.GenreIDs, g.Hex())
	}
	return b
}

type instanceDoc struct {
	ID      primitive.ObjectID `bson:"_id"`
	Book    primitive.ObjectID `bson:"book"`
	Imprint string             `bson:"imprint"`
	Status  string             `bson:"status"`
	DueBack time.Time          `bson:"due_back"`
}

func (d instanceDoc) model() *data.BookInstance {
	return &data.BookInstance{
		ID:      d.ID.Hex(),
		BookID:  d.Book.Hex(),
		Imprint: d.Imprint,
		Status:  data.Status(d.Status),
		DueBack: d.DueBack,
	}
}

// objectID parses a hex id. Malformed ids cannot name a document, so callers
// treat the error as ErrRecordNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, data.ErrRecordNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return oids, nil
}
