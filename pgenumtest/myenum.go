package pgenumtest

import (
	"database/sql/driver"
	"fmt"

	"github.com/xy-planning-network/pgenum"
)

// MyEnum is a Go stand-in for the database enum type myenum.
type MyEnum string

const (
	Foo MyEnum = "foo"
	Bar MyEnum = "bar"
)

// MyEnumType describes myenum: its name, and its labels in the order the database sorts them.
var MyEnumType = pgenum.MustType("myenum", Foo, Bar)

// MyEnumValues returns every MyEnum, in declaration order.
func MyEnumValues() []MyEnum { return MyEnumType.Labels() }

// String stringifies the MyEnum.
//
// String implements fmt.Stringer.
func (e MyEnum) String() string { return string(e) }

// Valid determines whether the MyEnum is one of the declared constants.
func (e MyEnum) Valid() error { return MyEnumType.Valid(e) }

// GormDataType names the database type for gorm's migrator.
func (MyEnum) GormDataType() string { return MyEnumType.Name() }

// Scan decodes a myenum label read from the database.
// An undeclared label returns ErrNotValid and leaves e untouched.
//
// Scan implements sql.Scanner.
func (e *MyEnum) Scan(src any) error {
	v, err := MyEnumType.Scan(src)
	if err != nil {
		return err
	}

	*e = v
	return nil
}

// Value encodes the MyEnum as its database label.
//
// Value implements driver.Valuer.
func (e MyEnum) Value() (driver.Value, error) { return MyEnumType.Value(e) }

// MarshalText implements encoding.TextMarshaler.
func (e MyEnum) MarshalText() ([]byte, error) {
	if err := e.Valid(); err != nil {
		return nil, err
	}

	return []byte(e), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *MyEnum) UnmarshalText(b []byte) error {
	v, err := MyEnumType.Parse(string(b))
	if err != nil {
		return err
	}

	*e = v
	return nil
}

// MyEnums is a myenum[] column.
type MyEnums []MyEnum

// GormDataType names the database array type for gorm's migrator.
func (MyEnums) GormDataType() string { return MyEnumType.Name() + "[]" }

// Scan implements sql.Scanner.
func (es *MyEnums) Scan(src any) error {
	v, err := MyEnumType.ScanArray(src)
	if err != nil {
		return err
	}

	*es = v
	return nil
}

// Value implements driver.Valuer.
func (es MyEnums) Value() (driver.Value, error) { return MyEnumType.ValueArray(es) }

// Catalog holds every enum type this package declares.
var Catalog = mustCatalog(MyEnumType)

func mustCatalog(defs ...pgenum.Definition) *pgenum.Catalog {
	c, err := pgenum.NewCatalog(defs...)
	if err != nil {
		panic(fmt.Sprintf("pgenumtest: %s", err))
	}

	return c
}
