package postgres

import (
	"database/sql/driver"
	"fmt"
	"reflect"

	"github.com/xy-planning-network/pgenum"
)

// An Updates is a map of key-value pairs where key is the database column and the value is the data.
type Updates map[string]any

func (u Updates) valid() error {
	if len(u) == 0 {
		return fmt.Errorf("%w: no columns set", pgenum.ErrMissingData)
	}

	return nil
}

// unwrap copies u, replacing each pgenum.Enumerable with its label.
// An enum constant the type does not declare yields ErrNotValid.
// A nil pointer to an enum becomes NULL.
func (u Updates) unwrap() (map[string]any, error) {
	vals := make(map[string]any, len(u))
	for k, v := range u {
		e, ok := v.(pgenum.Enumerable)
		if !ok {
			vals[k] = v
			continue
		}

		if isNilPtr(e) {
			vals[k] = nil
			continue
		}

		if err := e.Valid(); err != nil {
			return nil, fmt.Errorf("%w: column %s: %s", pgenum.ErrNotValid, k, err)
		}

		vals[k] = e.String()
	}

	return vals, nil
}

// StripNils removes all entries from the map where the value resolves to nil, i.e. NULL.
//
// An invalid pgenum.Enumerable, including the zero value, is treated as NULL.
func (u Updates) StripNils() {
	for k, v := range u {
		switch t := v.(type) {
		case nil:
			delete(u, k)

		case pgenum.Enumerable:
			if isNilPtr(t) {
				delete(u, k)
				continue
			}

			if err := t.Valid(); err != nil {
				delete(u, k)
			}

		case driver.Valuer:
			val, err := t.Value()
			if err != nil || val == nil {
				delete(u, k)
			}
		}
	}
}

// isNilPtr reports whether v holds a nil pointer,
// such as an unset nullable enum column, whose value methods cannot be called.
func isNilPtr(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
