package pgenumtest

import (
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/postgres"
)

// CreateMyEnumSQL creates myenum.
var CreateMyEnumSQL = MyEnumType.CreateSQL()

const createMyEnumRowsSQL = `
	CREATE TABLE IF NOT EXISTS my_enum_rows (
		id SERIAL PRIMARY KEY,
		value myenum NOT NULL,
		maybe myenum,
		many myenum[]
	)`

// MyEnumRow is a record of the my_enum_rows table.
type MyEnumRow struct {
	ID    uint
	Value MyEnum
	Maybe *MyEnum
	Many  MyEnums
}

func (MyEnumRow) TableName() string { return "my_enum_rows" }

// Migrations builds the myenum type and the my_enum_rows table.
// The SQL files under migrations build the same schema for golang-migrate.
var Migrations = []postgres.Migration{
	postgres.EnumMigration(MyEnumType),
	postgres.SQLMigration("create-my-enum-rows", createMyEnumRowsSQL),
}

var _ pgenum.Enumerable = Foo
