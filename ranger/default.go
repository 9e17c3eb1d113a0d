package ranger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/logger"
	"github.com/xy-planning-network/pgenum/pgxenum"
	"github.com/xy-planning-network/pgenum/postgres"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLvl   = slog.LevelInfo
	logJSONEnvVar   = "LOG_JSON"
	defaultLogJSON  = false
	sentryDsnEnvVar = "SENTRY_DSN"

	// Database defaults
	dbHostEnvVar         = "DATABASE_HOST"
	defaultDBHost        = "localhost"
	dbNameEnvVar         = "DATABASE_NAME"
	dbPassEnvVar         = "DATABASE_PASSWORD"
	dbPortEnvVar         = "DATABASE_PORT"
	defaultDBPort        = "5432"
	dbSSLModeEnvVar      = "DATABASE_SSLMODE"
	defaultDBSSLMode     = "prefer"
	dbURLEnvVar          = "DATABASE_URL"
	dbUserEnvVar         = "DATABASE_USER"
	dbMaxIdleCxnsEnvVar  = "DATABASE_MAX_IDLE_CXNS"
	defaultDBMaxIdleCxns = 1
	dbMaxCxnsEnvVar      = "DATABASE_MAX_CXNS"
	defaultDBMaxCxns     = 4

	// Test defaults
	dbTestHostEnvVar     = "DATABASE_TEST_HOST"
	defaultDBTestHost    = "localhost"
	dbTestNameEnvVar     = "DATABASE_TEST_NAME"
	dbTestPassEnvVar     = "DATABASE_TEST_PASSWORD"
	dbTestPortEnvVar     = "DATABASE_TEST_PORT"
	defaultDBTestPort    = "5432"
	dbTestURLEnvVar      = "DATABASE_TEST_URL"
	dbTestUserEnvVar     = "DATABASE_TEST_USER"
	dbTestSSLModeEnvVar  = "DATABASE_TEST_SSLMODE"
	defaultDBTestSSLMode = "prefer"
)

// NewPostgresConfig constructs a *postgres.CxnConfig appropriate to the given environment.
// Confer the DATABASE env vars for usage.
func NewPostgresConfig(env pgenum.Environment) *postgres.CxnConfig {
	var cfg *postgres.CxnConfig
	url := os.Getenv(dbURLEnvVar)
	testURL := os.Getenv(dbTestURLEnvVar)
	switch {
	case env.IsTesting() && testURL != "":
		cfg = &postgres.CxnConfig{IsTestDB: true, URL: testURL}

	case env.IsTesting():
		cfg = &postgres.CxnConfig{
			Host:     pgenum.EnvVarOrString(dbTestHostEnvVar, defaultDBTestHost),
			IsTestDB: true,
			Name:     os.Getenv(dbTestNameEnvVar),
			Password: os.Getenv(dbTestPassEnvVar),
			Port:     pgenum.EnvVarOrString(dbTestPortEnvVar, defaultDBTestPort),
			SSLMode:  pgenum.EnvVarOrString(dbTestSSLModeEnvVar, defaultDBTestSSLMode),
			User:     os.Getenv(dbTestUserEnvVar),
		}

	case url == "":
		cfg = &postgres.CxnConfig{
			Host:     pgenum.EnvVarOrString(dbHostEnvVar, defaultDBHost),
			IsTestDB: false,
			Name:     os.Getenv(dbNameEnvVar),
			Password: os.Getenv(dbPassEnvVar),
			Port:     pgenum.EnvVarOrString(dbPortEnvVar, defaultDBPort),
			SSLMode:  pgenum.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
			User:     os.Getenv(dbUserEnvVar),
		}

	default:
		cfg = &postgres.CxnConfig{IsTestDB: false, URL: url}
	}

	cfg.MaxIdleCxns = pgenum.EnvVarOrInt(dbMaxIdleCxnsEnvVar, defaultDBMaxIdleCxns)

	return cfg
}

// NewLogger constructs a logger.Logger writing to out,
// shaped by env and the LOG_LEVEL, LOG_JSON and SENTRY_DSN env vars.
//
// NewLogger also sets the constructed *slog.Logger as log/slog's default.
func NewLogger(env pgenum.Environment, out io.Writer) logger.Logger {
	return newLogger(pgenum.AppLogKind, env, out)
}

// NewCLILogger is NewLogger for command-line tools.
func NewCLILogger(env pgenum.Environment, out io.Writer) logger.Logger {
	return newLogger(pgenum.CLILogKind, env, out)
}

func newLogger(kind slog.Value, env pgenum.Environment, out io.Writer) logger.Logger {
	slogger := newSlogger(kind, env, out)
	var l logger.Logger = logger.New(slogger)
	l.Debug("setting up logger", nil)
	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		l = logger.NewSentryLogger(env, logger.New(slogger), dsn)
		l.Debug("using SentryLogger", nil)
	}

	slog.SetDefault(slogger)

	return l
}

// newSlogger toggles constructing the specific [*log/slog.Logger]
// from the given parameters.
func newSlogger(kind slog.Value, env pgenum.Environment, out io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(pgenum.EnvVarOrLogLevel(logLevelEnvVar, defaultLogLvl))

	useJSON := pgenum.EnvVarOrBool(logJSONEnvVar, defaultLogJSON) || !env.IsDevelopment()

	var handler slog.Handler
	switch {
	case useJSON:
		opts := &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: logger.TruncSourceAttr,
		}
		handler = slog.NewJSONHandler(out, opts)

	default:
		opts := &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.ColorizeLevel(groups, a)
				return logger.TruncSourceAttr(groups, a)
			},
		}
		handler = slog.NewTextHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		{Key: pgenum.LogKindKey, Value: kind},
	})

	return slog.New(handler)
}

// defaultDB connects to a Postgres database
// using default configuration environment variables
// and runs the list of [postgres.Migration] passed in.
func defaultDB(env pgenum.Environment, list []postgres.Migration, l logger.Logger) (*postgres.DB, *postgres.CxnConfig, error) {
	cfg := NewPostgresConfig(env)
	l.Debug("connecting to database", &logger.LogContext{Data: map[string]any{"cfg": cfg}})

	db, err := postgres.Connect(cfg, list, env, l)
	if err != nil {
		return nil, nil, err
	}

	return db, cfg, nil
}

// defaultPool opens a pgx pool to the database cfg names,
// registering every enum type in cat on each connection.
func defaultPool(ctx context.Context, cfg *postgres.CxnConfig, cat *pgenum.Catalog) (*pgxpool.Pool, error) {
	maxCxns := pgenum.EnvVarOrInt(dbMaxCxnsEnvVar, defaultDBMaxCxns)
	if maxCxns < 1 || maxCxns > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %s must be between 1 and %d, got %d", pgenum.ErrBadConfig, dbMaxCxnsEnvVar, math.MaxInt32, maxCxns)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: parsing pool config: %s", pgenum.ErrBadConfig, err)
	}

	poolCfg.MaxConns = int32(maxCxns)
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()
	poolCfg.AfterConnect = pgxenum.AfterConnect(cat.Names()...)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating db pool: %s", pgenum.ErrUnexpected, err)
	}

	return pool, nil
}
