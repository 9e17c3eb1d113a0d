// Package pgxenum connects pgenum types to pgx.
//
// Without registration pgx already round-trips enum columns as text,
// calling the Scan and Value methods of a Go enum type.
// Register teaches a connection the enum type and its array type,
// so arrays such as myenum[] decode into a []E, and labels travel in binary format too.
// Use AfterConnect to register on every connection of a pgxpool.Pool.
//
// Labels and Checker read pg_catalog.pg_enum to catch drift between Go and the database.
package pgxenum
