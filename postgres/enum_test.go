package postgres_test

import (
	"errors"

	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/pgenumtest"
)

func (suite *DBTestSuite) TestEnumLabels() {
	for _, tc := range []struct {
		name string
		want []string
		err  error
	}{
		{"myenum", []string{"foo", "bar"}, nil},
		{"public.myenum", []string{"foo", "bar"}, nil},
		{"MyEnum", []string{"foo", "bar"}, nil},
		{"ghost", nil, pgenum.ErrNotExist},
		{"my_enum_rows", nil, pgenum.ErrNotExist},
	} {
		suite.Run(tc.name, func() {
			// Act
			labels, err := suite.db.EnumLabels(tc.name)

			// Assert
			suite.Require().ErrorIs(err, tc.err)
			suite.Require().Equal(tc.want, labels)
		})
	}
}

func (suite *DBTestSuite) TestCheckEnums() {
	// Act
	err := suite.db.CheckEnums(pgenumtest.Catalog.All()...)

	// Assert
	suite.Require().Nil(err)

	// Arrange
	ahead := pgenum.MustType("myenum", pgenumtest.Foo, pgenumtest.Bar, "baz")
	swapped := pgenum.MustType("myenum", pgenumtest.Bar, pgenumtest.Foo)
	ghost := pgenum.MustType("ghost", pgenumtest.Foo)

	// Act
	err = suite.db.CheckEnums(ahead, swapped, ghost, nil)

	// Assert
	suite.Require().ErrorIs(err, pgenum.ErrMismatch)
	suite.Require().ErrorIs(err, pgenum.ErrNotExist)
	suite.Require().ErrorIs(err, pgenum.ErrMissingData)

	var merr *pgenum.MismatchError
	suite.Require().True(errors.As(err, &merr))
	suite.Require().Equal("myenum", merr.Type)
	suite.Require().Equal([]string{"baz"}, merr.Missing)
	suite.Require().Empty(merr.Unknown)
	suite.Require().False(merr.Reordered)
}
