package postgres

import (
	"errors"
	"fmt"

	"github.com/xy-planning-network/pgenum"
)

const enumLabelsSQL = `
	SELECT e.enumlabel
	FROM pg_catalog.pg_enum e
	WHERE e.enumtypid = to_regtype(?)
	ORDER BY e.enumsortorder`

// EnumLabels returns the labels of the enum type name, in declared order.
//
// name may be schema qualified and is resolved against the search_path otherwise.
// If no such enum type exists, ErrNotExist returns.
func (db *DB) EnumLabels(name string) ([]string, error) {
	if db.db.Error != nil {
		return nil, db.db.Error
	}

	var labels []string
	if err := db.db.Raw(enumLabelsSQL, name).Scan(&labels).Error; err != nil {
		return nil, classify(err)
	}

	// NOTE: to_regtype yields NULL for an unknown type, so no rows match.
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: enum type %s", pgenum.ErrNotExist, name)
	}

	return labels, nil
}

// CheckEnums compares each definition against the enum type of the same name in the database.
//
// Every mismatch is joined into the returned error;
// use errors.As with a *pgenum.MismatchError to inspect them one by one.
// A type missing from the database yields ErrNotExist.
func (db *DB) CheckEnums(defs ...pgenum.Definition) error {
	var errs error
	for _, def := range defs {
		if def == nil {
			errs = errors.Join(errs, fmt.Errorf("%w: nil definition", pgenum.ErrMissingData))
			continue
		}

		labels, err := db.EnumLabels(def.Name())
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		errs = errors.Join(errs, def.Diff(labels))
	}

	return errs
}
