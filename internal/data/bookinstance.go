// internal/data/bookinstance.go
package data

import "time"

// Status is the circulation state of a physical copy.
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

// Statuses lists every Status in the order forms present them.
var Statuses = []Status{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}

// DefaultStatus is assigned to copies created without an explicit status.
const DefaultStatus = StatusMaintenance

// ParseStatus returns the Status named by s. The second result is false for
// unknown names.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// BookInstance is one physical copy of a Book.
type BookInstance struct {
	ID      string    `json:"id"`
	BookID  string    `json:"book_id"`
	Imprint string    `json:"imprint"`
	Status  Status    `json:"status"`
	DueBack time.Time `json:"due_back"`

	Book *Book `json:"book,omitempty"` // joined on reads
}

// NewBookInstance returns a copy with the default status and a due date of
// now. Callers overwrite whatever the form supplied.
func NewBookInstance() *BookInstance {
	return &BookInstance{
		Status:  DefaultStatus,
		DueBack: time.Now(),
	}
}

// URL is the path of the copy's detail page.
func (bi *BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}

// DueBackFormatted renders the due date in medium format.
func (bi *BookInstance) DueBackFormatted() string {
	return formatMedium(&bi.DueBack)
}

// DueBackInput renders the due date as YYYY-MM-DD for form inputs.
func (bi *BookInstance) DueBackInput() string {
	return formatInput(&bi.DueBack)
}
