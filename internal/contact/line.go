package contact

import (
	"errors"
	"fmt"
	"strings"
)

// Bulk-load line errors.
var (
	// ErrMalformedLine indicates a bulk-load line with fewer than three fields.
	ErrMalformedLine = errors.New("contact: malformed line")
	// ErrUnrepresentable indicates a contact that cannot be written as a
	// bulk-load line without changing its fields on re-import.
	ErrUnrepresentable = errors.New("contact: not representable as a bulk-load line")
)

// ParseLine decodes one bulk-load line of the form
//
//	first,last,number[,address]
//
// The address is everything after the third comma, so it may contain commas.
// Fields are trimmed. The number is not validated.
func ParseLine(line string) (Contact, error) {
	parts := strings.SplitN(strings.TrimRight(line, "\r\n"), ",", 4)
	if len(parts) < 3 {
		return Contact{}, fmt.Errorf("%w: want at least 3 fields, got %d", ErrMalformedLine, len(parts))
	}
	c := Contact{
		FirstName: parts[0],
		LastName:  parts[1],
		Number:    parts[2],
	}
	if len(parts) == 4 {
		c.Address = parts[3]
	}
	return c.Normalize(), nil
}

// FormatLine encodes c as a bulk-load line without a trailing newline.
// Only the address may contain commas, and no field may contain a line
// break; otherwise FormatLine returns ErrUnrepresentable.
func FormatLine(c Contact) (string, error) {
	for _, f := range []Field{FieldFirstName, FieldLastName, FieldNumber} {
		if strings.Contains(c.Get(f), ",") {
			return "", fmt.Errorf("%w: comma in %s", ErrUnrepresentable, f)
		}
	}
	for _, f := range []Field{FieldFirstName, FieldLastName, FieldNumber, FieldAddress} {
		if strings.ContainsAny(c.Get(f), "\r\n") {
			return "", fmt.Errorf("%w: line break in %s", ErrUnrepresentable, f)
		}
	}
	return strings.Join([]string{c.FirstName, c.LastName, c.Number, c.Address}, ","), nil
}
