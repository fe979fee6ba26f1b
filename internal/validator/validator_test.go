package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorKeepsFirstErrorInOrder(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "Title must not be empty.")
	v.Check(true, "author", "never recorded")
	v.Check(false, "isbn", "ISBN must not be empty")
	v.Check(false, "title", "second title error")

	assert.False(t, v.Valid())
	assert.Equal(t, []FieldError{
		{Field: "title", Message: "Title must not be empty."},
		{Field: "isbn", Message: "ISBN must not be empty"},
	}, v.FieldErrors())
}

func TestChecks(t *testing.T) {
	assert.False(t, NotBlank(" \t "))
	assert.True(t, NotBlank(" x "))

	assert.False(t, MinChars("ab", 3))
	assert.True(t, MinChars("abc", 3))
	assert.True(t, MinChars("äöü", 3))
	assert.True(t, MaxChars("abc", 3))
	assert.False(t, MaxChars("abcd", 3))

	assert.True(t, In("Loaned", "Available", "Loaned"))
	assert.False(t, In("Lost", "Available", "Loaned"))

	assert.True(t, OptionalDate(""))
	assert.True(t, OptionalDate("2020-02-29"))
	assert.False(t, OptionalDate("2021-02-29"))
	assert.False(t, OptionalDate("2021-2-3"))
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<b>bold</b>", "&lt;b&gt;bold&lt;&#x2F;b&gt;"},
		{`Tom & "Jerry's"`, "Tom &amp; &quot;Jerry&#x27;s&quot;"},
		{"a\\b`c", "a&#x5C;b&#96;c"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestSanitizeAll(t *testing.T) {
	assert.Equal(t, []string{}, SanitizeAll(nil))
	assert.Equal(t, []string{"a", "&lt;b&gt;"}, SanitizeAll([]string{" a ", "<b>"}))
	assert.Equal(t, "Fantasy", Sanitize("  Fantasy\n"))
}
