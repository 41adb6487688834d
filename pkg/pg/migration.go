package pg

import (
	"database/sql"
	"embed"

	"github.com/nimasrn/transaction-eda/pkg/logger"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgres"
	DialectSqlite   = "sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded migrations to db.
func Migrate(db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrapf(err, "goose dialect %s", dialect)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return errors.Wrap(err, "read migration version")
	}
	logger.Info("migrations applied", "dialect", dialect, "version", v)
	return nil
}

// MigrateGorm runs Migrate on the connection behind a gorm handle.
func MigrateGorm(db *gorm.DB, dialect string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "unwrap gorm connection")
	}
	return Migrate(sqlDB, dialect)
}

// MigratePostgres opens a plain lib/pq connection and migrates it.
func MigratePostgres(cfg Config) error {
	db, err := newSqlConnection(cfg)
	if err != nil {
		return errors.Wrap(err, "open postgres")
	}
	defer db.Close()
	return Migrate(db, DialectPostgres)
}
