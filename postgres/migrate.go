package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xy-planning-network/pgenum"
	"gorm.io/gorm"
)

const migrationsTable = "migrations"

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

// EnumMigration constructs a Migration creating the enum type def describes.
// The key is derived from the type's name, so each type is created once.
func EnumMigration(def pgenum.Definition) Migration {
	return Migration{
		Key: "create-enum-" + def.Name(),
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(def.CreateSQL()).Error
		},
	}
}

// AddLabelMigration constructs a Migration adding label to the enum type t after after.
// If after is the zero value, the label is appended.
//
// Declare the new constant on t before migrating;
// AddLabelMigration returns ErrNotValid for a label t does not know.
func AddLabelMigration[E ~string](t *pgenum.Type[E], label, after E) (Migration, error) {
	stmt, err := t.AddLabelSQL(label, after)
	if err != nil {
		return Migration{}, err
	}

	return Migration{
		Key: fmt.Sprintf("add-enum-label-%s-%s", t.Name(), label),
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(stmt).Error
		},
	}, nil
}

// SQLMigration constructs a Migration executing stmt verbatim.
func SQLMigration(key, stmt string) Migration {
	return Migration{
		Key: key,
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(stmt).Error
		},
	}
}

func (m Migration) execute(db *gorm.DB) error {
	// Start transaction
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	// Run migration logic
	if err := m.Executor(tx); err != nil {
		tx.Rollback()
		return err
	}

	// Record the migration as part of the same transaction
	err := tx.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	return nil
}

// MigrateUp ensures schema and the migrations table exist,
// then runs, in order, each migration not yet recorded as run.
//
// Each migration runs in its own transaction.
// MigrateUp stops at the first failing migration and returns its error, keyed by the migration.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := ensureSchema(db, schema); err != nil {
		return err
	}

	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	toRun, err := determineMigrationsToRun(db, migrations)
	if err != nil {
		return err
	}

	for _, m := range toRun {
		if m.Executor == nil {
			return fmt.Errorf("%w: migration %s has no executor", pgenum.ErrMissingData, m.Key)
		}

		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %s: %s", pgenum.ErrUnexpected, m.Key, err)
		}
	}

	return nil
}

func ensureSchema(db *gorm.DB, schema string) error {
	err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{schema}.Sanitize())).Error
	if err != nil {
		return fmt.Errorf("%w: creating %s schema: %s", pgenum.ErrUnexpected, schema, err)
	}

	return nil
}

func ensureMigrationsTable(db *gorm.DB) error {
	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", pgenum.ErrUnexpected, err)
	}

	return nil
}

// RanMigrations lists the keys of every migration already run, oldest first.
func RanMigrations(db *gorm.DB) ([]string, error) {
	var keys []string
	err := db.Table(migrationsTable).Order("id").Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("%w: fetching ran migrations: %s", pgenum.ErrUnexpected, err)
	}

	return keys, nil
}

func determineMigrationsToRun(db *gorm.DB, allMigrations []Migration) ([]Migration, error) {
	ran, err := RanMigrations(db)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ran))
	for _, k := range ran {
		seen[k] = true
	}

	var toRun []Migration
	for _, m := range allMigrations {
		if seen[m.Key] {
			continue
		}

		// NOTE: later repeats of a key are dropped.
		seen[m.Key] = true
		toRun = append(toRun, m)
	}

	return toRun, nil
}
