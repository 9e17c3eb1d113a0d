package pgenum

import (
	"fmt"
	"slices"
	"strings"
)

// A MismatchError reports how the labels of a database enum type
// differ from the labels declared in Go.
type MismatchError struct {
	// Type is the name of the enum type.
	Type string

	// Missing are labels declared in Go the database does not have.
	Missing []string

	// Unknown are labels the database has that Go does not declare.
	// Decoding a row holding one of these fails.
	Unknown []string

	// Reordered is set when the labels both sides share sort in a different order.
	Reordered bool
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing from database: "+strings.Join(e.Missing, ", "))
	}

	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown to Go: "+strings.Join(e.Unknown, ", "))
	}

	if e.Reordered {
		parts = append(parts, "labels sort differently")
	}

	return fmt.Sprintf("%s: enum type %s: %s", ErrMismatch, e.Type, strings.Join(parts, "; "))
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Diff compares dbLabels, in the database's sort order, with the Type's labels.
// Diff returns nil when both hold the same labels in the same order,
// otherwise a *MismatchError.
func (t *Type[E]) Diff(dbLabels []string) error {
	return diff(t.name, t.Strings(), dbLabels)
}

func diff(name string, goLabels, dbLabels []string) error {
	if slices.Equal(goLabels, dbLabels) {
		return nil
	}

	merr := &MismatchError{Type: name}
	var goShared, dbShared []string
	for _, l := range goLabels {
		if slices.Contains(dbLabels, l) {
			goShared = append(goShared, l)
			continue
		}

		merr.Missing = append(merr.Missing, l)
	}

	for _, l := range dbLabels {
		if slices.Contains(goLabels, l) {
			dbShared = append(dbShared, l)
			continue
		}

		merr.Unknown = append(merr.Unknown, l)
	}

	merr.Reordered = !slices.Equal(goShared, dbShared)

	return merr
}
