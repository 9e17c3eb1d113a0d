package postgres

import (
	"errors"
	"regexp"

	"gorm.io/gorm"
)

const violatesFK = "violates foreign key constraint"

var (
	// These errors originate from the std lib database/sql package.
	//
	// Cf., https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=3395;drc=3dbef65bf37f1b7ccd1f884761341a5a15456ffa
	errSQLScan          = regexp.MustCompile(`sql: expected \d+ destination arguments in Scan, not \d+`)
	errSQLUnaddressable = regexp.MustCompile(`sql: Scan error on column index \d+, name "\w+": destination not a pointer`)

	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	// 22P02 covers "invalid input value for enum".
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02|42804)`)

	// errUndefinedObject covers a missing enum type, e.g. on ALTER TYPE.
	errUndefinedObject = regexp.MustCompile(`SQLSTATE (42704)`)

	errConstraintViolation = regexp.MustCompile(`SQLSTATE (23502)`)
	errUniqViolation       = regexp.MustCompile(`SQLSTATE (23505|42710)`)

	// errEnumLabel matches errors a pgenum.Type raises from Scan or Value
	// once a driver has flattened them into plain text.
	errEnumLabel = regexp.MustCompile(`(is not a label of|cannot scan \S+ into) \S+`)

	errNilArg = errors.New("nil arg")

	safeGORMSession = &gorm.Session{}
)
