package ranger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/logger"
	"github.com/xy-planning-network/pgenum/pgxenum"
	"github.com/xy-planning-network/pgenum/postgres"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/xy-planning-network/pgenum"

// A Ranger manages and exposes the components an application mapping enum types needs
// to one another: the environment, a logger, the catalog of enum types,
// and the GORM and pgx connections to the database holding them.
type Ranger struct {
	ctx        context.Context
	cat        *pgenum.Catalog
	cfg        *postgres.CxnConfig
	db         *postgres.DB
	env        pgenum.Environment
	l          logger.Logger
	migrations []postgres.Migration
	pool       *pgxpool.Pool
	tracer     trace.Tracer
}

// New constructs a Ranger managing the enum types in cat from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
//
// Unless WithDB supplies one, New connects to the database the DATABASE env vars describe
// and runs a migration creating each enum type in cat, followed by those WithMigrations supplies.
// Unless WithPool supplies one, New then opens a pgx pool to the same database.
func New(cat *pgenum.Catalog, opts ...RangerOption) (*Ranger, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: nil catalog", pgenum.ErrBadConfig)
	}

	r := &Ranger{cat: cat}
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Ranger under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Ranger
	// until either (1) user supplied RangerOptions or (2) default RangerOptions
	// configure the *Ranger first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", pgenum.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range append(followups, r.connect) {
		if err := fn(); err != nil {
			r.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *Ranger) EmitCatalog() *pgenum.Catalog { return r.cat }
func (r *Ranger) EmitDB() *postgres.DB         { return r.db }
func (r *Ranger) EmitEnv() pgenum.Environment  { return r.env }
func (r *Ranger) EmitLogger() logger.Logger    { return r.l }
func (r *Ranger) EmitPool() *pgxpool.Pool      { return r.pool }
func (r *Ranger) EmitTracer() trace.Tracer     { return r.tracer }

// Migrations lists every migration the Ranger runs:
// one creating each enum type in its catalog, then those WithMigrations supplied.
func (r *Ranger) Migrations() []postgres.Migration {
	defs := r.cat.All()
	list := make([]postgres.Migration, 0, len(defs)+len(r.migrations))
	for _, def := range defs {
		list = append(list, postgres.EnumMigration(def))
	}

	return append(list, r.migrations...)
}

// Migrate runs any of the Ranger's migrations not yet run against its database.
func (r *Ranger) Migrate() error {
	if r.db == nil {
		return fmt.Errorf("%w: no database", pgenum.ErrMissingData)
	}

	return postgres.MigrateUp(r.db.DB(), "public", r.Migrations())
}

// Check compares every enum type in the catalog with the database,
// first through GORM, then, if a pool is open, through pgx.
//
// Check joins every mismatch into the error it returns.
func (r *Ranger) Check(ctx context.Context) error {
	var errs error
	if r.db != nil {
		errs = errors.Join(errs, r.db.CheckEnums(r.cat.All()...))
	}

	if r.pool != nil {
		errs = errors.Join(errs, pgxenum.NewChecker(r.tracer, r.l).CheckAll(ctx, r.pool, r.cat))
	}

	if errs != nil {
		return errs
	}

	r.l.Info("enum types match the database", &logger.LogContext{Data: map[string]any{"types": r.cat.Names()}})

	return nil
}

// Close releases the pool and the database connection.
func (r *Ranger) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}

	if r.db == nil {
		return nil
	}

	return postgres.Close(r.db)
}

// connect opens whichever of the database connections no option supplied.
func (r *Ranger) connect() error {
	if r.db == nil {
		db, cfg, err := defaultDB(r.env, r.Migrations(), r.l)
		if err != nil {
			return err
		}

		r.db, r.cfg = db, cfg
	}

	if r.pool == nil && r.cfg != nil {
		pool, err := defaultPool(r.ctx, r.cfg, r.cat)
		if err != nil {
			return err
		}

		r.pool = pool
	}

	return nil
}

func defaultOpts() []RangerOption {
	return []RangerOption{
		WithContext(context.Background()),
		WithEnv(environmentEnvVar),
		WithTracer(otel.Tracer(tracerName)),
		func(rng *Ranger) (OptFollowup, error) {
			return func() error {
				if rng.l == nil {
					rng.l = NewLogger(rng.env, defaultLogOutput)
				}

				return nil
			}, nil
		},
	}
}
