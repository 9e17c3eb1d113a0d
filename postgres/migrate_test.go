package postgres_test

import (
	"strings"

	"github.com/google/uuid"
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/pgenumtest"
	"github.com/xy-planning-network/pgenum/postgres"
	"gorm.io/gorm"
)

type mood string

func newTypeName() string { return "mood_" + strings.ReplaceAll(uuid.NewString(), "-", "") }

func (suite *DBTestSuite) TestMigrateUp() {
	// Arrange
	ran, err := postgres.RanMigrations(suite.db.DB())
	suite.Require().Nil(err)
	suite.Require().Contains(ran, "create-enum-myenum")
	suite.Require().Contains(ran, "create-my-enum-rows")

	// Act
	err = postgres.MigrateUp(suite.db.DB(), "public", pgenumtest.Migrations)

	// Assert
	suite.Require().Nil(err)

	again, err := postgres.RanMigrations(suite.db.DB())
	suite.Require().Nil(err)
	suite.Require().Equal(ran, again)

	// Act
	err = postgres.MigrateUp(suite.db.DB(), "public", []postgres.Migration{{Key: newTypeName()}})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrMissingData)

	// Arrange
	key := newTypeName()
	bad := postgres.SQLMigration(key, "CREATE TYPE broken AS ENUM ('a', 'a')")

	// Act
	err = postgres.MigrateUp(suite.db.DB(), "public", []postgres.Migration{bad})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrUnexpected)

	ran, err = postgres.RanMigrations(suite.db.DB())
	suite.Require().Nil(err)
	suite.Require().NotContains(ran, key)
}

func (suite *DBTestSuite) TestEnumMigration() {
	// Arrange
	name := newTypeName()
	v1 := pgenum.MustType[mood](name, "sad", "happy")
	v2 := pgenum.MustType[mood](name, "sad", "ok", "happy", "elated")

	// Act
	err := postgres.MigrateUp(suite.db.DB(), "public", []postgres.Migration{postgres.EnumMigration(v1)})

	// Assert
	suite.Require().Nil(err)

	labels, err := suite.db.EnumLabels(name)
	suite.Require().Nil(err)
	suite.Require().Equal([]string{"sad", "happy"}, labels)
	suite.Require().ErrorIs(suite.db.CheckEnums(v2), pgenum.ErrMismatch)

	// Arrange
	ok, err := postgres.AddLabelMigration(v2, "ok", "sad")
	suite.Require().Nil(err)

	elated, err := postgres.AddLabelMigration(v2, "elated", "")
	suite.Require().Nil(err)

	// Act
	err = postgres.MigrateUp(suite.db.DB(), "public", []postgres.Migration{postgres.EnumMigration(v1), ok, elated})

	// Assert
	suite.Require().Nil(err)
	suite.Require().Nil(suite.db.CheckEnums(v2))

	// Act
	_, err = postgres.AddLabelMigration(v2, "furious", "")

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Cleanup
	suite.Require().Nil(suite.db.DB().Transaction(func(tx *gorm.DB) error {
		return tx.Exec(v2.DropSQL()).Error
	}))
}
