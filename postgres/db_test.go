package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/pgenumtest"
	"github.com/xy-planning-network/pgenum/postgres"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func insertRows(t *testing.T, db *postgres.DB) []pgenumtest.MyEnumRow {
	t.Helper()

	rows := []pgenumtest.MyEnumRow{
		{Value: pgenumtest.Foo},
		{Value: pgenumtest.Bar, Maybe: ptr(pgenumtest.Foo), Many: pgenumtest.MyEnums{pgenumtest.Bar, pgenumtest.Foo}},
		{Value: pgenumtest.Foo, Maybe: ptr(pgenumtest.Bar), Many: pgenumtest.MyEnums{}},
	}

	require.Nil(t, db.Create(&rows))

	return rows
}

func (suite *DBTestSuite) TestCount() {
	// Arrange + Act
	count, err := suite.db.Count()

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrUnexpected)
	suite.Require().Zero(count)

	// Arrange
	_ = insertRows(suite.T(), suite.db)

	// Act
	count, err = suite.db.Model(new(pgenumtest.MyEnumRow)).Count()

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(int64(3), count)

	// Act
	count, err = suite.db.Model(new(pgenumtest.MyEnumRow)).Where("value = ?", pgenumtest.Foo).Count()

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(int64(2), count)

	// Act
	count, err = suite.db.
		Model(new(pgenumtest.MyEnumRow)).
		Where("value = ?", 1, 2).
		Count()

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)
	suite.Require().Zero(count)
}

func (suite *DBTestSuite) TestCommit() {
	// Arrange
	tx := suite.db.Begin()
	row := pgenumtest.MyEnumRow{Value: pgenumtest.Bar}
	suite.Require().Nil(tx.Create(&row))
	suite.Require().NotZero(row.ID)

	var actual pgenumtest.MyEnumRow

	// Act
	err := tx.Commit()

	// Assert
	suite.Require().Nil(err)
	suite.Require().Nil(suite.db.Where("id = ?", row.ID).First(&actual))
	suite.Require().Equal(pgenumtest.Bar, actual.Value)

	// Arrange
	tx = suite.db.Begin()
	suite.Require().Nil(tx.Rollback())

	// Act
	err = tx.Commit()

	// Assert
	suite.Require().Error(err)
}

func (suite *DBTestSuite) TestCreate() {
	// Arrange
	db := postgres.NewDB(suite.db.DB().Session(&gorm.Session{NewDB: true}))
	db.DB().Error = testErr

	// Act
	err := db.Create(nil)

	// Assert
	suite.Require().ErrorIs(err, testErr)

	// Arrange
	row := pgenumtest.MyEnumRow{Value: pgenumtest.Foo, Many: pgenumtest.MyEnums{pgenumtest.Bar}}

	// Act
	err = suite.db.Create(&row)

	// Assert
	suite.Require().Nil(err)
	suite.Require().NotZero(row.ID)

	for _, tc := range []struct {
		name string
		row  pgenumtest.MyEnumRow
	}{
		{"zero", pgenumtest.MyEnumRow{}},
		{"unknown", pgenumtest.MyEnumRow{Value: "baz"}},
		{"unknown-nullable", pgenumtest.MyEnumRow{Value: pgenumtest.Foo, Maybe: ptr(pgenumtest.MyEnum("baz"))}},
		{"unknown-element", pgenumtest.MyEnumRow{Value: pgenumtest.Foo, Many: pgenumtest.MyEnums{"baz"}}},
	} {
		suite.Run(tc.name, func() {
			// Act
			err := suite.db.Create(&tc.row)

			// Assert
			suite.Require().ErrorIs(err, pgenum.ErrNotValid)
			suite.Require().Zero(tc.row.ID)
		})
	}

	// Act
	err = suite.db.Table("my_enum_rows").Create(postgres.Updates{"value": pgenumtest.Bar})

	// Assert
	suite.Require().Nil(err)

	// Act
	err = suite.db.Table("my_enum_rows").Create(postgres.Updates{"value": pgenumtest.MyEnum("baz")})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Act
	err = suite.db.Table("my_enum_rows").Create(postgres.Updates{"value": "baz"})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Act
	err = suite.db.Table("my_enum_rows").Create(postgres.Updates{})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrMissingData)

	count, err := suite.db.Model(new(pgenumtest.MyEnumRow)).Count()
	suite.Require().Nil(err)
	suite.Require().Equal(int64(2), count)
}

func (suite *DBTestSuite) TestDelete() {
	// Arrange
	rows := insertRows(suite.T(), suite.db)

	// Act
	err := suite.db.Delete(&rows[0])

	// Assert
	suite.Require().Nil(err)

	// Act
	err = suite.db.Delete(&rows[0])

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotFound)

	// Act
	err = suite.db.Where("value = ?", pgenumtest.Foo).Delete(new(pgenumtest.MyEnumRow))

	// Assert
	suite.Require().Nil(err)

	count, err := suite.db.Model(new(pgenumtest.MyEnumRow)).Count()
	suite.Require().Nil(err)
	suite.Require().Equal(int64(1), count)
}

func (suite *DBTestSuite) TestExec() {
	// Arrange
	_ = insertRows(suite.T(), suite.db)

	// Act
	err := suite.db.Exec("UPDATE my_enum_rows SET maybe = ? WHERE value = ?", pgenumtest.Bar, pgenumtest.Foo)

	// Assert
	suite.Require().Nil(err)

	count, err := suite.db.Model(new(pgenumtest.MyEnumRow)).Where("maybe = ?", pgenumtest.Bar).Count()
	suite.Require().Nil(err)
	suite.Require().Equal(int64(2), count)

	// Act
	err = suite.db.Exec("UPDATE my_enum_rows SET maybe = ? WHERE value = ?", pgenumtest.Bar, pgenumtest.MyEnum("baz"))

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Act
	err = suite.db.Exec("UPDATE my_enum_rows SET maybe = NULL WHERE id = ?", -1)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotFound)
}

func (suite *DBTestSuite) TestExists() {
	// Arrange + Act
	exists, err := suite.db.Model(new(pgenumtest.MyEnumRow)).Where("value = ?", pgenumtest.Bar).Exists()

	// Assert
	suite.Require().Nil(err)
	suite.Require().False(exists)

	// Arrange
	_ = insertRows(suite.T(), suite.db)

	// Act
	exists, err = suite.db.Model(new(pgenumtest.MyEnumRow)).Where("value = ?", pgenumtest.Bar).Exists()

	// Assert
	suite.Require().Nil(err)
	suite.Require().True(exists)

	// Act
	exists, err = suite.db.Model(new(pgenumtest.MyEnumRow)).Where("value = ?", pgenumtest.MyEnum("Bar")).Exists()

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)
	suite.Require().False(exists)
}

func (suite *DBTestSuite) TestFind() {
	// Arrange
	var actual []pgenumtest.MyEnumRow

	// Act
	err := suite.db.Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotFound)

	// Arrange
	rows := insertRows(suite.T(), suite.db)

	// Act
	err = suite.db.Order("id").Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(rows, actual)

	// Arrange
	var bad []pgenumtest.MyEnumRow

	// Act
	err = suite.db.
		Table("(?) AS my_enum_rows", suite.db.DB().Raw("SELECT 1 AS id, 'baz'::text AS value")).
		Select("id", "value").
		Find(&bad)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)
}

func (suite *DBTestSuite) TestFirst() {
	// Arrange
	var actual pgenumtest.MyEnumRow

	// Act
	err := suite.db.First(&actual)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotFound)

	// Arrange
	rows := insertRows(suite.T(), suite.db)

	// Act
	err = suite.db.Where("value = ?", pgenumtest.Bar).First(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(rows[1], actual)
	suite.Require().Equal(pgenumtest.Foo, *actual.Maybe)

	// Arrange
	actual = pgenumtest.MyEnumRow{}

	// Act
	err = suite.db.Where("id = ?", rows[0].ID).First(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Nil(actual.Maybe)
	suite.Require().Nil(actual.Many)
}

func (suite *DBTestSuite) TestLimit() {
	// Arrange
	_ = insertRows(suite.T(), suite.db)

	var actual []pgenumtest.MyEnumRow

	// Act
	err := suite.db.Limit(2).Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(actual, 2)

	// Act
	err = suite.db.Limit(-1).Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)
}

func (suite *DBTestSuite) TestOrder() {
	// Arrange
	_ = insertRows(suite.T(), suite.db)

	var actual []pgenumtest.MyEnumRow

	// Act
	err := suite.db.Order("value DESC, id").Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(actual, 3)
	suite.Require().Equal(pgenumtest.Bar, actual[0].Value)
	suite.Require().Equal(pgenumtest.Foo, actual[1].Value)
	suite.Require().Equal(pgenumtest.Foo, actual[2].Value)

	// Act
	err = suite.db.Order("value, id").Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(pgenumtest.Foo, actual[0].Value)
	suite.Require().Equal(pgenumtest.Bar, actual[2].Value)
}

func (suite *DBTestSuite) TestRaw() {
	// Arrange
	_ = insertRows(suite.T(), suite.db)

	var values []pgenumtest.MyEnum

	// Act
	err := suite.db.Raw(&values, "SELECT value FROM my_enum_rows WHERE value = ? ORDER BY id", pgenumtest.Foo)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal([]pgenumtest.MyEnum{pgenumtest.Foo, pgenumtest.Foo}, values)

	// Arrange
	var bad []pgenumtest.MyEnum

	// Act
	err = suite.db.Raw(&bad, "SELECT 'baz'::text")

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Act
	err = suite.db.Raw(&bad, "SELECT ?::myenum", "baz")

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Act
	err = suite.db.Raw(&values, "SELECT value FROM my_enum_rows WHERE value = ?", pgenumtest.MyEnum("baz"))

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)
}

func (suite *DBTestSuite) TestRollback() {
	// Arrange
	tx := suite.db.Begin()
	row := pgenumtest.MyEnumRow{Value: pgenumtest.Foo}
	suite.Require().Nil(tx.Create(&row))
	suite.Require().NotZero(row.ID)

	// Act
	err := tx.Rollback()

	// Assert
	suite.Require().Nil(err)

	var actual pgenumtest.MyEnumRow
	suite.Require().ErrorIs(suite.db.Where("id = ?", row.ID).First(&actual), pgenum.ErrNotFound)
}

func (suite *DBTestSuite) TestSelect() {
	// Arrange
	_ = insertRows(suite.T(), suite.db)

	var actual []pgenumtest.MyEnumRow

	// Act
	err := suite.db.Select("id", "value").Order("id").Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(actual, 3)
	suite.Require().Nil(actual[1].Maybe)
	suite.Require().Equal(pgenumtest.Bar, actual[1].Value)
}

func (suite *DBTestSuite) TestTransaction() {
	// Act
	err := suite.db.Transaction(func(tx *postgres.DB) error {
		if err := tx.Create(&pgenumtest.MyEnumRow{Value: pgenumtest.Foo}); err != nil {
			return err
		}

		return tx.Create(&pgenumtest.MyEnumRow{Value: "baz"})
	})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	count, err := suite.db.Model(new(pgenumtest.MyEnumRow)).Count()
	suite.Require().Nil(err)
	suite.Require().Zero(count)
}

func (suite *DBTestSuite) TestUpdate() {
	// Arrange
	db := postgres.NewDB(suite.db.DB().Session(&gorm.Session{NewDB: true}))
	db.DB().Error = testErr

	// Act
	err := db.Update(nil)

	// Assert
	suite.Require().ErrorIs(err, testErr)

	// Arrange
	updates := make(postgres.Updates)

	// Act
	err = suite.db.Model(new(pgenumtest.MyEnumRow)).Where("id = ?", 2).Update(updates)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrMissingData)

	// Arrange
	rows := insertRows(suite.T(), suite.db)

	// Act
	err = suite.db.
		Model(new(pgenumtest.MyEnumRow)).
		Where("value = ?", pgenumtest.Foo).
		Update(postgres.Updates{"value": pgenumtest.Bar, "many": pgenumtest.MyEnums{pgenumtest.Foo}})

	// Assert
	suite.Require().Nil(err)

	var actual pgenumtest.MyEnumRow
	suite.Require().Nil(suite.db.Where("id = ?", rows[0].ID).First(&actual))
	suite.Require().Equal(pgenumtest.Bar, actual.Value)
	suite.Require().Equal(pgenumtest.MyEnums{pgenumtest.Foo}, actual.Many)

	// Act
	err = suite.db.
		Model(new(pgenumtest.MyEnumRow)).
		Where("id = ?", rows[0].ID).
		Update(postgres.Updates{"value": pgenumtest.MyEnum("baz")})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Act
	err = suite.db.
		Model(new(pgenumtest.MyEnumRow)).
		Where("value = ?", pgenumtest.Foo).
		Update(postgres.Updates{"maybe": nil})

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotFound)

	// Act
	err = suite.db.
		Model(new(pgenumtest.MyEnumRow)).
		Where("id = ?", rows[1].ID).
		Update(postgres.Updates{"maybe": (*pgenumtest.MyEnum)(nil)})

	// Assert
	suite.Require().Nil(err)

	actual = pgenumtest.MyEnumRow{}
	suite.Require().Nil(suite.db.Where("id = ?", rows[1].ID).First(&actual))
	suite.Require().Nil(actual.Maybe)
}

func (suite *DBTestSuite) TestWhere() {
	// Arrange
	rows := insertRows(suite.T(), suite.db)

	var actual []pgenumtest.MyEnumRow

	// Act
	err := suite.db.Where("maybe = ?", pgenumtest.Bar).Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal([]pgenumtest.MyEnumRow{rows[2]}, actual)

	// Act
	actual = nil
	err = suite.db.Where("maybe IS NULL").Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal([]pgenumtest.MyEnumRow{rows[0]}, actual)

	// Act
	actual = nil
	err = suite.db.Where("maybe = ?", rows[0].Maybe).Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotFound)

	// Act
	actual = nil
	err = suite.db.Where("maybe = ?", rows[1].Maybe).Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal([]pgenumtest.MyEnumRow{rows[1]}, actual)

	// Act
	actual = nil
	err = suite.db.Where("? = ANY(many)", pgenumtest.Foo).Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal([]pgenumtest.MyEnumRow{rows[1]}, actual)

	// Act
	err = suite.db.Where("value = ?", pgenumtest.MyEnum("FOO")).Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Act
	err = suite.db.Where("value = ?", "FOO").Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Arrange
	badSubq := suite.db.Where("value = ?", pgenumtest.MyEnum("baz")).Select("id")

	// Act
	err = suite.db.Where("id IN (?)", badSubq).Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrNotValid)

	// Arrange
	actual = nil
	goodSubq := suite.db.Model(new(pgenumtest.MyEnumRow)).Where("value = ?", pgenumtest.Bar).Select("id")

	// Act
	err = suite.db.Where("id IN (?)", goodSubq).Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal([]pgenumtest.MyEnumRow{rows[1]}, actual)
}

func (suite *DBTestSuite) TestUnscoped() {
	// Arrange
	_ = insertRows(suite.T(), suite.db)

	// Act
	count, err := suite.db.Unscoped().Model(new(pgenumtest.MyEnumRow)).Count()

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(int64(3), count)
}
