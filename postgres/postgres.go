package postgres

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

var validate = validator.New(validator.WithRequiredStructEnabled())

// CxnConfig holds connection information used to connect to a PostgreSQL database.
//
// Either URL or Host, Port, Name and User must be set.
type CxnConfig struct {
	IsTestDB    bool
	URL         string `validate:"omitempty,url"`
	Host        string `validate:"required_without=URL"`
	Port        string `validate:"required_without=URL"`
	Name        string `validate:"required_without=URL"`
	User        string `validate:"required_without=URL"`
	Password    string
	SSLMode     string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxIdleCxns int    `validate:"gte=0"`
}

// Valid returns ErrBadConfig describing the first field that is missing or malformed.
func (cfg *CxnConfig) Valid() error {
	if cfg == nil {
		return fmt.Errorf("%w: nil CxnConfig", pgenum.ErrBadConfig)
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", pgenum.ErrBadConfig, err)
	}

	return nil
}

// LogValue masks the password and the URL, which may embed one.
//
// LogValue implements [log/slog.LogValuer].
func (cfg CxnConfig) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Bool("test", cfg.IsTestDB),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("name", cfg.Name),
		slog.String("user", cfg.User),
	}

	if cfg.URL != "" {
		attrs = append(attrs, slog.Attr{Key: "url", Value: pgenum.MaskedLogValue})
	}

	if cfg.Password != "" {
		attrs = append(attrs, slog.Attr{Key: "password", Value: pgenum.MaskedLogValue})
	}

	return slog.GroupValue(attrs...)
}

// Connect creates a database connection through GORM according to the connection config and runs all migrations.
//
// If cfg is for a test database and env permits it, the public schema is dropped first.
// Warnings and slow queries GORM reports are written to l; if l is nil, they go to os.Stdout.
func Connect(cfg *CxnConfig, migrations []Migration, env pgenum.Environment, l logger.Logger) (*DB, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	// https://gorm.io/docs/logger.html
	c := gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	}

	var w gormlogger.Writer = log.New(os.Stdout, "\r\n", log.LstdFlags)
	if l != nil {
		w = gormWriter{l}
	} else if env.IsDevelopment() {
		c.Colorful = true
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(w, c),
		NamingStrategy: schema.NamingStrategy{
			NameReplacer: strings.NewReplacer("Table", ""),
		},
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed opening connection: %s", pgenum.ErrUnexpected, err)
	}

	if cfg.MaxIdleCxns > 0 {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", pgenum.ErrUnexpected, err)
		}

		sqlDB.SetMaxIdleConns(cfg.MaxIdleCxns)
	}

	if cfg.IsTestDB {
		if !env.AllowsSchemaReset() {
			return nil, fmt.Errorf("%w: %s does not allow resetting a test database", pgenum.ErrBadConfig, env)
		}

		if err := gdb.Exec("DROP SCHEMA IF EXISTS public CASCADE;").Error; err != nil {
			return nil, fmt.Errorf("%w: %s", pgenum.ErrUnexpected, err)
		}
	}

	if err := MigrateUp(gdb, "public", migrations); err != nil {
		return nil, err
	}

	return NewDB(gdb), nil
}

// Close releases the connection pool backing db.
func Close(db *DB) error {
	sqlDB, err := db.DB().DB()
	if err != nil {
		return fmt.Errorf("%w: %s", pgenum.ErrUnexpected, err)
	}

	return sqlDB.Close()
}

// DSN renders cfg as a connection string libpq, pgx and the GORM driver all accept.
// URL wins when set; otherwise a keyword/value string is built from the other fields.
func (cfg *CxnConfig) DSN() string {
	if cfg.URL != "" {
		return cfg.URL
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		cxnStr,
		dsnValue(cfg.Host),
		dsnValue(cfg.Port),
		dsnValue(cfg.Name),
		dsnValue(cfg.User),
		dsnValue(cfg.Password),
		dsnValue(sslMode),
	)
}

// dsnValue quotes v when it is empty or holds characters libpq would otherwise split on.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}

	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

// WipeDB queries for all of the tables in schema and then drops the data in these tables.
// Enum types are left in place.
func WipeDB(db *gorm.DB, schema string) error {
	var tables []string
	err := db.
		Table("information_schema.tables").
		Select("table_name").
		Where("table_schema = ?", schema).
		Not("table_type = ?", "VIEW").
		Not("table_name = ?", migrationsTable).
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return fmt.Errorf("%w: %s", pgenum.ErrUnexpected, err)
	}

	if len(tables) == 0 {
		return nil
	}

	for i, t := range tables {
		tables[i] = pgx.Identifier{schema, t}.Sanitize()
	}

	return db.Exec(fmt.Sprintf("TRUNCATE %s CASCADE;", strings.Join(tables, ", "))).Error
}

// gormWriter routes GORM's log output to a logger.Logger.
type gormWriter struct {
	l logger.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.l.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), nil)
}
