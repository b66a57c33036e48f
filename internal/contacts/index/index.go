// Package index provides the in-memory local contact index.
package index

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"phonefinder/platform/apperr"
	"phonefinder/platform/phone"
)

// ErrMalformedSource is returned when a contact source lacks the required
// name and phone headers.
var ErrMalformedSource = apperr.Validation("malformed contact source: name and phone headers are required")

const (
	nameHeader  = "name"
	phoneHeader = "phone"
)

// Contact is a single name/phone pair. Contacts are immutable after load.
type Contact struct {
	Name  string
	Phone phone.Number
}

// Index holds the loaded contact table. It is read-only after Load and safe
// for concurrent use.
type Index struct {
	contacts []Contact
	skipped  int
}

// Load reads (name, phone) rows from a CSV source. The header row must
// contain "name" and "phone" columns (case-insensitive, any order). Rows
// whose phone value cannot be normalized are skipped and counted rather than
// aborting the load. When several rows normalize to the same number, the
// first one wins.
func Load(r io.Reader, region string) (*Index, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrMalformedSource
	}

	nameCol, phoneCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case nameHeader:
			nameCol = i
		case phoneHeader:
			phoneCol = i
		}
	}
	if nameCol < 0 || phoneCol < 0 {
		return nil, ErrMalformedSource
	}

	idx := &Index{}
	seen := make(map[string]bool)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged or unquotable rows are skipped like unparsable phones.
			idx.skipped++
			continue
		}
		if nameCol >= len(record) || phoneCol >= len(record) {
			idx.skipped++
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		rawPhone := strings.TrimSpace(record[phoneCol])
		if name == "" || rawPhone == "" {
			idx.skipped++
			continue
		}

		num, err := phone.Normalize(rawPhone, region)
		if err != nil {
			idx.skipped++
			continue
		}
		if seen[num.Digits] {
			// First-loaded entry wins; later duplicates are ignored.
			continue
		}
		seen[num.Digits] = true

		idx.contacts = append(idx.contacts, Contact{Name: name, Phone: num})
	}

	return idx, nil
}

// LoadFile opens and loads a CSV contact file.
func LoadFile(path, region string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, fmt.Sprintf("contacts file not found: %s", path), err)
	}
	defer f.Close()

	return Load(f, region)
}

// Find returns the first contact whose number matches per the phone matching
// policy, or nil when no contact matches. Lookup is a linear scan; contact
// lists top out at a few thousand rows.
func (idx *Index) Find(num phone.Number) *Contact {
	for i := range idx.contacts {
		if phone.Matches(idx.contacts[i].Phone, num) {
			return &idx.contacts[i]
		}
	}
	return nil
}

// Len returns the number of loaded contacts.
func (idx *Index) Len() int {
	return len(idx.contacts)
}

// Skipped returns how many rows were dropped during load for diagnostics.
func (idx *Index) Skipped() int {
	return idx.skipped
}
