/*
Package postgres manages a GORM connection to PostgreSQL that stores enum columns.

Connect opens the connection and runs every Migration not yet recorded in the migrations table.
EnumMigration and AddLabelMigration derive migrations from a pgenum.Definition,
so the Go constants remain the source for CREATE TYPE and ALTER TYPE statements.
When the connection targets a test database, the public schema is dropped first.

DB wraps *gorm.DB with a small set of query building and finisher methods.
Arguments implementing pgenum.Enumerable are validated before reaching the database;
an undeclared constant yields pgenum.ErrNotValid, as does a stored label a Scan method rejects.

EnumLabels and CheckEnums read pg_catalog.pg_enum so drift between
the Go declaration and the database type is caught at startup rather than at the first bad row.
*/
package postgres
