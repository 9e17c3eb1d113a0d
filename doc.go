/*
Package pgenum maps closed Go enumerations onto PostgreSQL enum types.

# Types

A PostgreSQL enum type is created with a fixed, ordered list of labels:

	CREATE TYPE myenum AS ENUM ('foo', 'bar');

In Go, the same set is a string type with one constant per label.
[Type] ties the two together:

	type MyEnum string

	const (
		Foo MyEnum = "foo"
		Bar MyEnum = "bar"
	)

	var MyEnumType = pgenum.MustType("myenum", Foo, Bar)

Labels map by name, case-sensitively, and a [Type] keeps them in the order PostgreSQL sorts them.
A Go string type is open: MyEnum("baz") compiles.
Closure is therefore enforced wherever a value crosses into or out of the program:
[Type.Parse], [Type.Scan] and [Type.Value] reject anything that is not a declared label with [ErrNotValid].
An enum type usually delegates its sql.Scanner, driver.Valuer and [Enumerable] methods to its [Type].

# Drift

Adding a Go constant without migrating the database, or the other way around,
breaks decoding at runtime.
[Type.Diff] compares the labels a database reports with the declared ones.
Package postgres and package pgxenum run that comparison against a live connection.

# Subpackages

  - postgres: a GORM-backed access layer with enum-aware arguments and migrations
  - pgxenum: codec registration and label checks for pgx connections and pools
  - ranger: configuration and bootstrap from environment variables
  - pgenumtest: the MyEnum fixture and its schema
*/
package pgenum
