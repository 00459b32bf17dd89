// Package contact defines the phonebook entry, its input validation, and the
// line format used by bulk-load files.
package contact

import (
	"errors"
	"fmt"
	"strings"
)

// Document keys used by every storage backend.
const (
	KeyID        = "_id"
	KeyFirstName = "First Name"
	KeyLastName  = "Last Name"
	KeyNumber    = "Number"
	KeyAddress   = "Address"
)

// Number length bounds, inclusive.
const (
	MinNumberLen = 8
	MaxNumberLen = 11
)

// Field identifies one user-editable contact field.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldNumber
	FieldAddress
)

// String returns the display label of the field.
func (f Field) String() string {
	switch f {
	case FieldFirstName:
		return "First Name"
	case FieldLastName:
		return "Last Name"
	case FieldNumber:
		return "Number"
	case FieldAddress:
		return "Address"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Sentinel errors for caller-checkable validation failures.
var (
	ErrFirstNameRequired = errors.New("please enter the first name")
	ErrLastNameRequired  = errors.New("please enter the last name")
	ErrNumberRequired    = errors.New("please enter the number")
	ErrNumberNotNumeric  = errors.New("please enter a valid number")
	ErrNumberLength      = fmt.Errorf("the phone number must be between %d and %d digits", MinNumberLen, MaxNumberLen)
)

// ValidationError reports which field failed validation and why.
type ValidationError struct {
	Field Field
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Contact is a single phonebook entry. ID is assigned by the storage backend
// and is empty until the contact has been stored.
type Contact struct {
	ID        string `json:"_id,omitempty"`
	FirstName string `json:"First Name"`
	LastName  string `json:"Last Name"`
	Number    string `json:"Number"`
	Address   string `json:"Address"`
}

// Normalize returns a copy with surrounding whitespace trimmed from every field.
func (c Contact) Normalize() Contact {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Number = strings.TrimSpace(c.Number)
	c.Address = strings.TrimSpace(c.Address)
	return c
}

// Validate checks the required fields and the phone number format.
// It returns a *ValidationError for the first failing field.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return &ValidationError{Field: FieldFirstName, Err: ErrFirstNameRequired}
	}
	if strings.TrimSpace(c.LastName) == "" {
		return &ValidationError{Field: FieldLastName, Err: ErrLastNameRequired}
	}
	number := strings.TrimSpace(c.Number)
	if number == "" {
		return &ValidationError{Field: FieldNumber, Err: ErrNumberRequired}
	}
	if !isDigits(number) {
		return &ValidationError{Field: FieldNumber, Err: ErrNumberNotNumeric}
	}
	if len(number) < MinNumberLen || len(number) > MaxNumberLen {
		return &ValidationError{Field: FieldNumber, Err: ErrNumberLength}
	}
	return nil
}

// Matches reports whether term occurs literally in any of the four fields.
// Matching is case-sensitive; the empty term matches every contact.
func (c Contact) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(c.FirstName, term) ||
		strings.Contains(c.LastName, term) ||
		strings.Contains(c.Number, term) ||
		strings.Contains(c.Address, term)
}

// Get returns the value of field f.
func (c Contact) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return c.FirstName
	case FieldLastName:
		return c.LastName
	case FieldNumber:
		return c.Number
	case FieldAddress:
		return c.Address
	default:
		return ""
	}
}

// isDigits reports whether s is non-empty and made only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
