package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{"both parts", Author{FirstName: "Isaac", FamilyName: "Asimov"}, "Asimov, Isaac"},
		{"no first name", Author{FamilyName: "Asimov"}, ""},
		{"no family name", Author{FirstName: "Isaac"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.author.Name())
		})
	}
}

func TestAuthorLifespan(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{"unknown", Author{}, ""},
		{"living", Author{DateOfBirth: date(1948, time.March, 5)}, "Mar 5, 1948 - "},
		{"both", Author{DateOfBirth: date(1920, time.January, 2), DateOfDeath: date(1992, time.April, 6)}, "Jan 2, 1920 - Apr 6, 1992"},
		{"death only", Author{DateOfDeath: date(1992, time.April, 6)}, " - Apr 6, 1992"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.author.Lifespan())
		})
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/catalog/author/a1", (&Author{ID: "a1"}).URL())
	assert.Equal(t, "/catalog/genre/g1", (&Genre{ID: "g1"}).URL())
	assert.Equal(t, "/catalog/book/b1", (&Book{ID: "b1"}).URL())
	assert.Equal(t, "/catalog/bookinstance/i1", (&BookInstance{ID: "i1"}).URL())
}

func TestDateInputsArePadded(t *testing.T) {
	a := Author{DateOfBirth: date(1971, time.February, 3)}
	assert.Equal(t, "1971-02-03", a.DateOfBirthInput())
	assert.Equal(t, "", a.DateOfDeathInput())

	bi := BookInstance{DueBack: *date(2026, time.January, 9)}
	assert.Equal(t, "2026-01-09", bi.DueBackInput())
	assert.Equal(t, "Jan 9, 2026", bi.DueBackFormatted())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDate(" 1999-12-31 ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dec 31, 1999", formatMedium(got))

	_, err = ParseDate("31/12/1999")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, ok := ParseStatus(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok := ParseStatus("Lost")
	assert.False(t, ok)
	_, ok = ParseStatus("available")
	assert.False(t, ok)
}

func TestNewBookInstance(t *testing.T) {
	before := time.Now()
	bi := NewBookInstance()

	assert.Equal(t, StatusMaintenance, bi.Status)
	assert.False(t, bi.DueBack.Before(before))
}

func TestBookHasGenre(t *testing.T) {
	b := Book{GenreIDs: []string{"g1", "g2"}}

	assert.True(t, b.HasGenre("g2"))
	assert.False(t, b.HasGenre("g3"))
}
