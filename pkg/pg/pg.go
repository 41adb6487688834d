package pg

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type DB struct {
	read  *gorm.DB
	write *gorm.DB
}

func gormConfig(withDebug bool) *gorm.Config {
	c := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	}
	if !withDebug {
		c.Logger = logger.Default.LogMode(logger.Silent)
	}
	return c
}

func Create(config Config, withDebug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.dsn()), gormConfig(withDebug))
	if err != nil {
		return nil, err
	}

	if withDebug {
		db = db.Debug()
	}
	return db, nil
}

// CreateSQLite opens (and creates) a SQLite database file.
func CreateSQLite(path string, withDebug bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(withDebug))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if withDebug {
		db = db.Debug()
	}
	return db, nil
}

// Wrap uses the same handle for reads and writes.
func Wrap(db *gorm.DB) *DB {
	return &DB{read: db, write: db}
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	return r.write.WithContext(ctx)
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	return r.read.WithContext(ctx)
}

func (r *DB) Close() error {
	sqlDB, err := r.write.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
