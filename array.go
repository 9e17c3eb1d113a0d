package pgenum

import (
	"database/sql/driver"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// ScanArray decodes src, the text representation of a PostgreSQL array of the enum type
// such as {foo,bar}, into a slice of constants.
//
// A NULL src decodes into a nil slice.
// Any element that is not a declared label, or is NULL, returns ErrNotValid.
func (t *Type[E]) ScanArray(src any) ([]E, error) {
	if src == nil {
		return nil, nil
	}

	var labels []string
	m := pgtype.NewMap()
	if err := m.SQLScanner(&labels).Scan(src); err != nil {
		return nil, fmt.Errorf("%w: cannot scan %T into %s: %s", ErrNotValid, src, t.ArrayName(), err)
	}

	out := make([]E, len(labels))
	for i, l := range labels {
		e, err := t.Parse(l)
		if err != nil {
			return nil, err
		}

		out[i] = e
	}

	return out, nil
}

// ValueArray encodes es in the text representation of a PostgreSQL array.
// A nil es encodes as NULL; an empty, non-nil es as an empty array.
func (t *Type[E]) ValueArray(es []E) (driver.Value, error) {
	if es == nil {
		return nil, nil
	}

	labels := make([]string, len(es))
	for i, e := range es {
		if err := t.Valid(e); err != nil {
			return nil, err
		}

		labels[i] = string(e)
	}

	b, err := pgtype.NewMap().Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, labels, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %s", ErrUnexpected, t.ArrayName(), err)
	}

	return string(b), nil
}
