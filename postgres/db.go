package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xy-planning-network/pgenum"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type DB struct {
	// *gorm.DB's methods are generally unsafe to use.
	// Specifically, some *gorm.DB methods are not thread-safe
	// and mutate the state of the *gorm.DB backing DB.
	//
	// If a *gorm.DB method calls *gorm.DB.getInstance,
	// this appears to render a method "safe" since it creates a new pointer.
	//
	// If a *gorm.DB method does not, be aware.
	// One solution is to use *gorm.DB.Session to force a clean pointer.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// Debug prints the current query to the logger.
func (db *DB) Debug() *DB { return &DB{db.db.Debug()} }

// **************************************************************************
// FINISHER METHODS
//
// These methods close out a current query, executing it.
// All finisher methods are terminal and cannot be chained.
// They return any errors occuring within the query chain
// or when executing the query.
//
// Wherever a value fails to decode into a pgenum.Enumerable,
// or PostgreSQL rejects an enum label,
// the error wraps pgenum.ErrNotValid.
//
// **************************************************************************

// Count returns the number of records matching the current query or an error.
func (db *DB) Count() (int64, error) {
	if db.db.Error != nil {
		return 0, db.db.Error
	}

	var count int64
	if err := db.db.Count(&count).Error; err != nil {
		return 0, classify(err)
	}

	return count, nil
}

// Create inserts value into the database, updating value with new data yielding from that insertion.
// Accordingly, almost always, value is a pointer to a struct that is a database table.
//
// Value can be an Updates when the table is set with Table or Model.
//
// Value must be a pointer, otherwise ErrUnaddressable returns.
// If a field holds an enum label the database type does not have, ErrNotValid returns.
// If value violates a foreign key constraint defined by the database, ErrNotValid returns.
// If value violates a unique constraint defined by the database, ErrExists returns.
func (db *DB) Create(value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %T must be a non-nil pointer or slice", pgenum.ErrUnaddressable, value)
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	if v, ok := value.(Updates); ok {
		if err = v.valid(); err != nil {
			return err
		}

		if value, err = v.unwrap(); err != nil {
			return err
		}
	}

	err = db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, schema.ErrUnsupportedDataType):
		return fmt.Errorf("%w: %T is not a database table", pgenum.ErrMissingData, value)

	case strings.Contains(err.Error(), violatesFK):
		return fmt.Errorf("%w: %s", pgenum.ErrNotValid, err)

	default:
		return classify(err)
	}
}

// Delete removes the database record for value.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if errors.Is(res.Error, schema.ErrUnsupportedDataType) {
		return fmt.Errorf("%w: cannot parse table name from %T", pgenum.ErrMissingData, value)
	}

	if res.Error != nil {
		return classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", pgenum.ErrNotFound, value)
	}

	return nil
}

// Exec executes SQL query sql, passing values to it.
//
// If the query executed does not affect any records, Exec returns ErrNotFound.
// DDL, such as CREATE TYPE, never affects records,
// so callers ought to ignore ErrNotFound in that case.
//
// Exec does not write any data resulting from the query into Go values.
func (db *DB) Exec(sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	res := db.db.Exec(sql, values...)
	if res.Error != nil {
		return classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: exec failed to affect any rows", pgenum.ErrNotFound)
	}

	return nil
}

// Exists asserts whether any record matches the current query.
func (db *DB) Exists() (bool, error) {
	if db.db.Error != nil {
		return false, db.db.Error
	}

	var exists bool
	// NOTE(dlk): Without *gorm.DB.Session,
	// GORM fails to render the current query as a sub-query.
	err := db.db.Raw("SELECT EXISTS(?)", db.db.Session(safeGORMSession)).Scan(&exists).Error
	if err != nil {
		return false, classify(err)
	}

	return exists, nil
}

// Find retrieves all records matching the current query
// and stores them in dest.
//
// If dest is not a valid type for the table queried,
// or a record holds a label an enum field does not declare,
// then ErrNotValid returns.
// If no matches are found, Find returns ErrNotFound.
func (db *DB) Find(dest any) (err error) {
	badDest := fmt.Errorf("%w: %T cannot be scanned into", pgenum.ErrNotValid, dest)
	defer func() {
		if r := recover(); r != nil {
			err = badDest
		}
	}()

	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Find(dest)
	err = res.Error
	if err != nil && errSQLScan.MatchString(err.Error()) {
		return badDest
	}

	if err != nil {
		return classify(err)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w", pgenum.ErrNotFound)
	}

	return nil
}

// First retrieves a single record from the database matching the query
// and stores it in dest.
//
// If no matches are found, First returns ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %T", pgenum.ErrNotFound, dest)
	}

	if err != nil {
		return classify(err)
	}

	return nil
}

// Raw executes sql, passing values to it, and scans the results into dest.
func (db *DB) Raw(dest any, sql string, values ...any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	var err error
	values, err = unwrap(values...)
	if err != nil && !errors.Is(err, errNilArg) {
		return err
	}

	err = db.db.Raw(sql, values...).Scan(dest).Error
	if err != nil && errSQLUnaddressable.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", pgenum.ErrUnaddressable, err)
	}

	if err != nil {
		return classify(err)
	}

	return nil
}

// Update replaces existing data on all records matching the query with values.
//
// If no records are updated, ErrNotFound returns.
// The caller ought to specifically handle this error
// when its expected a query may not mutate records.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	vals, err := values.unwrap()
	if err != nil {
		return err
	}

	res := db.db.Updates(vals)
	switch {
	case res.Error != nil:
		return classify(res.Error)

	case res.RowsAffected == 0:
		return fmt.Errorf("%w", pgenum.ErrNotFound)

	default:
		return nil
	}
}

// **************************************************************************
// QUERY BUILDING METHODS
//
// Query building methods initiate a query and then add clauses to it
// until a finisher method is called.
// The caller can chain methods.
//
// **************************************************************************

// Limit applies a LIMIT clause to the current query.
func (db *DB) Limit(limit int) *DB {
	// NOTE(dlk): GORM interprets negatives by not applying a LIMIT clause.
	// PostgreSQL errors on negative numbers:
	//     ERROR:  LIMIT must not be negative
	//
	// This Limit mirrors PostgreSQL, not GORM.
	if limit < 0 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: limit must not be negative", pgenum.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Limit(limit)}
}

// Model declares the table used for the query.
//
// Model computes the name for the database table from the type of model,
// taking the plural of the table, unless model implements: func TableName() string
//
// Calling Model multiple times or in conjunction with Table is undefined behavior.
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Order applies an ORDER BY clause to the current query.
//
// Ordering by an enum column sorts by the type's declared label order, not alphabetically.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Select applies a SELECT statement to the current query.
func (db *DB) Select(columns ...string) *DB { return &DB{db: db.db.Select(columns)} }

// Table defines which database table to query for the current query.
// Table is similar to Model but allows for explicit definition of the table.
//
// args fill placeholders in name, such as a subquery aliased as a table.
func (db *DB) Table(name string, args ...any) *DB {
	var err error
	args, err = unwrap(args...)
	if err != nil {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Table(name, args...)}
}

// Unscoped includes soft deleted records in the current query.
func (db *DB) Unscoped() *DB { return &DB{db: db.db.Unscoped()} }

// Where applies the query fragment or subquery to the current query
// as a WHERE or AND clause.
//
// Where supports one or none args.
// If more than one arg is passed, finisher methods will return ErrNotValid.
// An arg implementing pgenum.Enumerable must be valid, or finisher methods return ErrNotValid.
func (db *DB) Where(query any, args ...any) *DB {
	if len(args) > 1 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: Where supports one or none args", pgenum.ErrNotValid))
		return &DB{db: gdb}
	}

	var err error
	args, err = unwrap(args...)
	if err != nil && !errors.Is(err, errNilArg) {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	q, err := unwrap(query)
	if err != nil {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(err)
		return &DB{db: gdb}
	}

	return &DB{db.db.Where(q[0], args...)}
}

// **************************************************************************
// TRANSACTION METHODS
//
// These methods control database transactions.
// **************************************************************************

// Begin initializes a database transaction.
func (db *DB) Begin(opts ...*sql.TxOptions) *DB {
	return &DB{db: db.db.Begin(opts...)}
}

// Commit completes the current transaction,
// applying any state changes and making them visible to other database connections.
func (db *DB) Commit() error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed committing tx: %s", pgenum.ErrUnexpected, err)
	}

	return nil
}

// Rollback reverts the current transaction.
// If no transaction is open, Rollback returns an error.
func (db *DB) Rollback() error {
	if err := db.db.Rollback().Error; err != nil {
		return fmt.Errorf("%w: failed rolling back tx: %s", pgenum.ErrUnexpected, err)
	}

	return nil
}

// Transaction runs fn inside a transaction,
// committing if fn returns nil and rolling back otherwise.
func (db *DB) Transaction(fn func(tx *DB) error) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	return db.db.Transaction(func(tx *gorm.DB) error { return fn(NewDB(tx)) })
}

// **************************************************************************
// HELPERS
//
// **************************************************************************

// classify maps err onto the pgenum sentinel errors callers match with errors.Is.
func classify(err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, pgenum.ErrNotValid), errors.Is(err, pgenum.ErrMissingData), errEnumLabel.MatchString(msg):
		// NOTE(dlk): a Scan method rejected the stored value, e.g., an undeclared enum label.
		return fmt.Errorf("%w: %s", pgenum.ErrNotValid, err)

	case errSQLSyntax.MatchString(msg), errConstraintViolation.MatchString(msg):
		return fmt.Errorf("%w: %s", pgenum.ErrNotValid, err)

	case errUniqViolation.MatchString(msg):
		return fmt.Errorf("%w: %s", pgenum.ErrExists, err)

	case errUndefinedObject.MatchString(msg):
		return fmt.Errorf("%w: %s", pgenum.ErrNotExist, err)

	default:
		return fmt.Errorf("%w: %s", pgenum.ErrUnexpected, err)
	}
}

// unwrap converts any custom types that are troublesome for GORM into types it can handle.
// unwrap ought to be applied to parameters of any type.
// unwrap returns an error in exceptional circumstances.
//
// A pgenum.Enumerable is validated and replaced by its label,
// so an undeclared constant never reaches the database.
// Likewise, a slice of them is validated element by element.
//
// If a *DB is passed as a parameter,
// and that *DB is in an error state, that fact is surfaced.
// This enables a *DB method to return early and prevent partial queries from running.
func unwrap(args ...any) ([]any, error) {
	var err error
	res := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case *DB:
			gdb := v.DB()
			if gdb.Error != nil {
				err = errors.Join(err, gdb.Error)
			}
			res[i] = gdb

		case pgenum.Enumerable:
			if isNilPtr(v) {
				res[i] = nil
				continue
			}

			if verr := v.Valid(); verr != nil {
				return nil, fmt.Errorf("%w: %T %q: %s", pgenum.ErrNotValid, v, v.String(), verr)
			}
			res[i] = v.String()

		case []pgenum.Enumerable:
			labels := make([]string, len(v))
			for j, e := range v {
				if isNilPtr(e) {
					return nil, fmt.Errorf("%w: nil %T in enum list", pgenum.ErrNotValid, e)
				}

				if verr := e.Valid(); verr != nil {
					return nil, fmt.Errorf("%w: %T %q: %s", pgenum.ErrNotValid, e, e.String(), verr)
				}
				labels[j] = e.String()
			}
			res[i] = labels

		case nil:
			res[i] = arg
			err = errors.Join(err, pgenum.ErrNotValid, errNilArg)

		default:
			res[i] = arg
		}
	}

	return res, err
}
