package pgenum

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// maxLabelLen mirrors PostgreSQL's NAMEDATALEN - 1;
// the server rejects longer enum labels.
const maxLabelLen = 63

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
//
// Implementing a new Enumerable or adding a new constant value ought to include updating the database with the same
// types and values. A [Type] records that correspondence and [Type.Diff] reports when the two drift apart.
type Enumerable interface {
	String() string
	Valid() error
}

// A Definition is the type-erased view of a [Type],
// letting enum types with different Go constants be handled together,
// such as when registering them in a [Catalog] or checking them against a live database.
type Definition interface {
	Name() string
	ArrayName() string
	Strings() []string
	CreateSQL() string
	DropSQL() string
	Diff(dbLabels []string) error
}

var _ Definition = (*Type[string])(nil)

// A Type describes a PostgreSQL enum type
// and the Go constants standing in for each of its labels.
//
// Labels map by name: the Go constant's string value is the database label, compared case-sensitively.
// The order labels are passed to [NewType] is the order PostgreSQL sorts them in.
//
// A Type is immutable after construction and safe for concurrent use.
type Type[E ~string] struct {
	name   string
	labels []E
	index  map[E]int
}

// NewType constructs a *Type for the database enum type called name.
//
// name may be schema-qualified, e.g., "public.myenum".
// NewType returns ErrNotValid if name is empty,
// if no labels are given,
// or if any label is empty, duplicated or longer than PostgreSQL allows.
func NewType[E ~string](name string, labels ...E) (*Type[E], error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: enum type name must not be empty", ErrNotValid)
	}

	if len(splitName(name)) > 2 {
		return nil, fmt.Errorf("%w: enum type name %q has too many parts", ErrNotValid, name)
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: enum type %s has no labels", ErrNotValid, name)
	}

	t := &Type[E]{
		name:   name,
		labels: make([]E, len(labels)),
		index:  make(map[E]int, len(labels)),
	}
	for i, l := range labels {
		switch {
		case l == "":
			return nil, fmt.Errorf("%w: enum type %s has an empty label at %d", ErrNotValid, name, i)

		case len(l) > maxLabelLen:
			return nil, fmt.Errorf("%w: enum type %s label %q exceeds %d bytes", ErrNotValid, name, l, maxLabelLen)
		}

		if _, ok := t.index[l]; ok {
			return nil, fmt.Errorf("%w: enum type %s repeats label %q", ErrNotValid, name, l)
		}

		t.labels[i] = l
		t.index[l] = i
	}

	return t, nil
}

// MustType is like NewType but panics if the type cannot be constructed.
// It simplifies initializing package-level variables.
func MustType[E ~string](name string, labels ...E) *Type[E] {
	t, err := NewType(name, labels...)
	if err != nil {
		panic(err)
	}

	return t
}

// Name returns the database name of the enum type, as passed to NewType.
func (t *Type[E]) Name() string { return t.name }

// ArrayName returns the name PostgreSQL gives the array type of the enum type,
// i.e., the type name prefixed with an underscore.
func (t *Type[E]) ArrayName() string {
	parts := splitName(t.name)
	parts[len(parts)-1] = "_" + parts[len(parts)-1]
	return strings.Join(parts, ".")
}

// Len returns the number of labels.
func (t *Type[E]) Len() int { return len(t.labels) }

// Labels returns a copy of the labels in sort order.
func (t *Type[E]) Labels() []E {
	out := make([]E, len(t.labels))
	copy(out, t.labels)
	return out
}

// Strings returns the labels in sort order as plain strings.
func (t *Type[E]) Strings() []string {
	out := make([]string, len(t.labels))
	for i, l := range t.labels {
		out[i] = string(l)
	}

	return out
}

// Contains asserts whether e is one of the labels of the enum type.
func (t *Type[E]) Contains(e E) bool {
	_, ok := t.index[e]
	return ok
}

// Valid returns ErrNotValid if e is not one of the labels of the enum type.
func (t *Type[E]) Valid(e E) error {
	if !t.Contains(e) {
		return fmt.Errorf("%w: %q is not a label of %s", ErrNotValid, string(e), t.name)
	}

	return nil
}

// Parse looks up the constant whose label is exactly label.
func (t *Type[E]) Parse(label string) (E, error) {
	e := E(label)
	if err := t.Valid(e); err != nil {
		var zero E
		return zero, err
	}

	return e, nil
}

// Ordinal returns the zero-based position of e in the enum type's sort order.
func (t *Type[E]) Ordinal(e E) (int, error) {
	i, ok := t.index[e]
	if !ok {
		return -1, t.Valid(e)
	}

	return i, nil
}

// Compare orders a and b the way PostgreSQL orders enum values:
// by their position in the type's declaration, not alphabetically.
// Compare returns -1, 0 or +1.
func (t *Type[E]) Compare(a, b E) (int, error) {
	i, err := t.Ordinal(a)
	if err != nil {
		return 0, err
	}

	j, err := t.Ordinal(b)
	if err != nil {
		return 0, err
	}

	switch {
	case i < j:
		return -1, nil
	case i > j:
		return 1, nil
	default:
		return 0, nil
	}
}

// Scan decodes src, as handed over by a database/sql driver, into one of the enum type's constants.
//
// A NULL src returns ErrMissingData;
// callers storing nullable columns ought to scan into a pointer instead.
func (t *Type[E]) Scan(src any) (E, error) {
	var zero E
	switch v := src.(type) {
	case nil:
		return zero, fmt.Errorf("%w: cannot scan NULL into %s", ErrMissingData, t.name)

	case string:
		return t.Parse(v)

	case []byte:
		return t.Parse(string(v))

	default:
		return zero, fmt.Errorf("%w: cannot scan %T into %s", ErrNotValid, src, t.name)
	}
}

// Value encodes e as its database label.
func (t *Type[E]) Value(e E) (driver.Value, error) {
	if err := t.Valid(e); err != nil {
		return nil, err
	}

	return string(e), nil
}

// CreateSQL renders the statement creating the enum type.
func (t *Type[E]) CreateSQL() string {
	quoted := make([]string, len(t.labels))
	for i, l := range t.labels {
		quoted[i] = quoteLiteral(string(l))
	}

	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", t.ident(), strings.Join(quoted, ", "))
}

// DropSQL renders the statement dropping the enum type along with any columns depending on it.
func (t *Type[E]) DropSQL() string {
	return fmt.Sprintf("DROP TYPE IF EXISTS %s CASCADE", t.ident())
}

// AddLabelSQL renders the statement extending the database enum type with label, placed after after.
//
// label must already be one of the Type's labels - add the Go constant first, then migrate the database.
// If after is the zero value, the label is appended.
func (t *Type[E]) AddLabelSQL(label, after E) (string, error) {
	if err := t.Valid(label); err != nil {
		return "", err
	}

	stmt := fmt.Sprintf("ALTER TYPE %s ADD VALUE IF NOT EXISTS %s", t.ident(), quoteLiteral(string(label)))
	if after == "" {
		return stmt, nil
	}

	if err := t.Valid(after); err != nil {
		return "", err
	}

	if after == label {
		return "", fmt.Errorf("%w: %q cannot be placed after itself", ErrNotValid, string(label))
	}

	return stmt + " AFTER " + quoteLiteral(string(after)), nil
}

func (t *Type[E]) ident() string { return pgx.Identifier(splitName(t.name)).Sanitize() }

func splitName(name string) []string { return strings.Split(name, ".") }

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
