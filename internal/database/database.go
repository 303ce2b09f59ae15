package database

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iyanhz/gostore/internal/config"
)

// Open creates and configures the MySQL connection pool.
// The returned pool is passed explicitly to the store; nothing in this
// codebase holds a package-level database handle.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
