// internal/data/author.go
package data

import "time"

// Author is a person credited with one or more books.
type Author struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	FamilyName  string     `json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"` // nil when unknown
	DateOfDeath *time.Time `json:"date_of_death,omitempty"` // nil when unknown or still living
}

// Name returns "family, first". It is empty when either part is missing so
// that half-filled records never render a dangling comma.
func (a *Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan returns "<birth> - <death>" in medium date format. Unknown sides
// are left blank; with neither date known the result is "".
func (a *Author) Lifespan() string {
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return ""
	}
	return formatMedium(a.DateOfBirth) + " - " + formatMedium(a.DateOfDeath)
}

// URL is the path of the author's detail page.
func (a *Author) URL() string {
	return "/catalog/author/" + a.ID
}

func (a *Author) DateOfBirthInput() string { return formatInput(a.DateOfBirth) }

func (a *Author) DateOfDeathInput() string { return formatInput(a.DateOfDeath) }
