package ranger

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/logger"
	"github.com/xy-planning-network/pgenum/postgres"
	"go.opentelemetry.io/otel/trace"
)

var defaultLogOutput = os.Stdout

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithDB is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// The default logger is an example of the second:
// it needs the Environment, which any RangerOption may set.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext sets the context.Context the Ranger opens connections with.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("%w: nil context", pgenum.ErrMissingData)
		}

		rng.ctx = ctx

		return nil, nil
	}
}

// WithDB exposes the provided *postgres.DB to the Ranger.
//
// WithDB assumes a connection has already been established and migrated.
// No pgx pool is opened unless WithPool supplies one.
func WithDB(db *postgres.DB) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.db = db

		return func() error {
			rng.l.Debug(fmt.Sprintf("using db %T", db), nil)
			return nil
		}, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the environment variable it names a valid Environment.
// WithEnv then exposes that Environment to the Ranger.
//
// If both fail, the default Environment is set to Development.
func WithEnv(envVar string) RangerOption {
	e := pgenum.Environment(envVar)
	if err := e.Valid(); err == nil {
		return func(rng *Ranger) (OptFollowup, error) {
			rng.env = e
			return nil, nil
		}
	}

	return func(rng *Ranger) (OptFollowup, error) {
		rng.env = pgenum.EnvVarOrEnv(envVar, pgenum.Development)
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the Ranger.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("%w: nil logger", pgenum.ErrMissingData)
		}

		rng.l = l

		return nil, nil
	}
}

// WithMigrations appends list to the migrations run after those creating the catalog's enum types.
func WithMigrations(list ...postgres.Migration) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.migrations = append(rng.migrations, list...)
		return nil, nil
	}
}

// WithPool exposes the provided *pgxpool.Pool to the Ranger.
// Configure the pool with pgxenum.AfterConnect so arrays of enum types decode.
func WithPool(pool *pgxpool.Pool) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.pool = pool

		return func() error {
			rng.l.Debug(fmt.Sprintf("using pool %T", pool), nil)
			return nil
		}, nil
	}
}

// WithTracer sets the trace.Tracer spans checking enum types are recorded with.
func WithTracer(t trace.Tracer) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if t == nil {
			return nil, fmt.Errorf("%w: nil tracer", pgenum.ErrMissingData)
		}

		rng.tracer = t

		return nil, nil
	}
}
