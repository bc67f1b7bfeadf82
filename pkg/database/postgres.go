package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config describes how to reach the relational store.
type Config struct {
	Driver     string
	URL        string
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SQLitePath string
	LogLevel   logger.LogLevel
}

// DSN builds the postgres connection string, preferring an explicit URL.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(cfg.LogLevel),
		PrepareStmt:    false, // Disables GORM-level prepared statements
		TranslateError: true,  // Unique violations surface as gorm.ErrDuplicatedKey
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite:
		db, err = OpenSQLite(cfg.SQLitePath, gormCfg)
	case DriverPostgres, "":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
		}), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	if cfg.Driver != DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info().Str("driver", cfg.Driver).Msg("database connection established")
	return db, nil
}

// OpenSQLite opens a CGO-free SQLite database. SQLite allows one writer at a
// time, so the pool is pinned to a single connection and transactions queue.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
