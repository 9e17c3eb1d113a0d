package pgxenum

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/xy-planning-network/pgenum"
)

// pgUndefinedObject is the SQLSTATE for a type that does not exist.
const pgUndefinedObject = "42704"

const labelsSQL = `
	SELECT e.enumlabel
	FROM pg_catalog.pg_enum e
	WHERE e.enumtypid = to_regtype($1)
	ORDER BY e.enumsortorder`

// Querier is the subset of pgx behavior used here.
// *pgx.Conn, *pgxpool.Pool and pgx.Tx all satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Register loads each named enum type, and its array type, into conn's type map.
//
// A name that is not a type returns ErrNotExist.
// A name that is a type but not an enum returns ErrNotValid.
func Register(ctx context.Context, conn *pgx.Conn, names ...string) error {
	for _, name := range names {
		t, err := loadType(ctx, conn, name)
		if err != nil {
			return err
		}

		if _, ok := t.Codec.(*pgtype.EnumCodec); !ok {
			return fmt.Errorf("%w: %s is not an enum type", pgenum.ErrNotValid, name)
		}

		conn.TypeMap().RegisterType(t)

		arr, err := loadType(ctx, conn, arrayName(name))
		if err != nil {
			return err
		}

		conn.TypeMap().RegisterType(arr)
	}

	return nil
}

// RegisterAll registers every enum type in c on conn.
func RegisterAll(ctx context.Context, conn *pgx.Conn, c *pgenum.Catalog) error {
	return Register(ctx, conn, c.Names()...)
}

// AfterConnect returns a hook for pgxpool.Config.AfterConnect
// registering the named enum types on each new connection.
func AfterConnect(names ...string) func(context.Context, *pgx.Conn) error {
	return func(ctx context.Context, conn *pgx.Conn) error {
		return Register(ctx, conn, names...)
	}
}

// Labels returns the labels of the enum type name, in the order PostgreSQL sorts them.
// If no such enum type exists, ErrNotExist returns.
func Labels(ctx context.Context, q Querier, name string) ([]string, error) {
	rows, err := q.Query(ctx, labelsSQL, name)
	if err != nil {
		return nil, fmt.Errorf("%w: querying labels of %s: %s", pgenum.ErrUnexpected, name, err)
	}

	labels, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: reading labels of %s: %s", pgenum.ErrUnexpected, name, err)
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: enum type %s", pgenum.ErrNotExist, name)
	}

	return labels, nil
}

func loadType(ctx context.Context, conn *pgx.Conn, name string) (*pgtype.Type, error) {
	t, err := conn.LoadType(ctx, name)
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return t, nil

	case errors.As(err, &pgErr) && pgErr.Code == pgUndefinedObject:
		return nil, fmt.Errorf("%w: type %s", pgenum.ErrNotExist, name)

	default:
		return nil, fmt.Errorf("%w: loading type %s: %s", pgenum.ErrUnexpected, name, err)
	}
}

// arrayName follows PostgreSQL's naming of implicit array types: myenum[] is _myenum.
func arrayName(name string) string {
	i := strings.LastIndex(name, ".")
	return name[:i+1] + "_" + name[i+1:]
}
