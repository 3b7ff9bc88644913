// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/cobaltcore-dev/vcd-inventory/internal/conf"
	"github.com/go-gorp/gorp"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sapcc/go-bits/easypg"
)

// Wrapper around gorp.DbMap that adds some convenience functions.
type DB struct {
	*gorp.DbMap
}

type Table interface {
	TableName() string
}

// Create a new database backing the result cache, as configured.
func NewDB(c conf.CacheConfig) (DB, error) {
	if c.Driver == "postgres" {
		return NewPostgresDB(c.DB)
	}
	return NewSqliteDB(c.SQLitePath)
}

// Create a new postgres database and wait until it is connected.
func NewPostgresDB(c conf.DBConfig) (DB, error) {
	stripYaml := func(s string) string { return strings.ReplaceAll(s, "\n", "") }
	dbURL, err := easypg.URLFrom(easypg.URLParts{
		HostName:          stripYaml(c.Host),
		Port:              stripYaml(c.Port),
		UserName:          stripYaml(c.User),
		Password:          stripYaml(c.Password),
		ConnectionOptions: "sslmode=disable",
		DatabaseName:      stripYaml(c.Database),
	})
	if err != nil {
		return DB{}, err
	}
	slog.Info("connecting to database", "host", stripYaml(c.Host), "database", stripYaml(c.Database))
	sqlDB, err := sql.Open("postgres", dbURL.String())
	if err != nil {
		return DB{}, err
	}

	// If the wait time exceeds 10 seconds, we give up.
	maxRetries := 10
	for i := range maxRetries {
		err = sqlDB.Ping()
		if err == nil {
			break
		}
		if i == maxRetries-1 {
			return DB{}, err
		}
		slog.Error("failed to connect to database, retrying...", "error", err)
		time.Sleep(1 * time.Second)
	}

	sqlDB.SetMaxOpenConns(16)
	dbMap := &gorp.DbMap{Db: sqlDB, Dialect: gorp.PostgresDialect{}}
	slog.Info("database is ready")
	return DB{DbMap: dbMap}, nil
}

// Create a new sqlite database at the given path.
func NewSqliteDB(path string) (DB, error) {
	if path == "" {
		path = "vcd-inventory.db"
	}
	slog.Info("opening sqlite database", "path", path)
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return DB{}, err
	}
	dbMap := &gorp.DbMap{Db: sqlDB, Dialect: gorp.SqliteDialect{}}
	return DB{DbMap: dbMap}, nil
}

// Adds missing functionality to gorp.DbMap which creates one table.
func (d *DB) CreateTable(table ...*gorp.TableMap) error {
	tx, err := d.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		return err
	}
	for _, t := range table {
		slog.Debug("creating table", "table", t.TableName)
		sql := t.SqlForCreate(true) // true means to add IF NOT EXISTS
		if _, err := tx.Exec(sql); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("failed to rollback transaction", "error", rbErr)
			}
			return err
		}
	}
	return tx.Commit()
}

// Adds a Model table to the database.
func (d *DB) AddTable(t Table) *gorp.TableMap {
	slog.Debug("adding table", "table", t.TableName())
	return d.AddTableWithName(t, t.TableName())
}

// Convenience function to close the database connection.
func (d *DB) Close() {
	if err := d.DbMap.Db.Close(); err != nil {
		slog.Error("failed to close database connection", "error", err)
	}
}

// Delete all rows of the model's table and insert the given objects
// in a single transaction.
func ReplaceAll[T Table](d DB, objs ...T) error {
	var model T
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM " + model.TableName()); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("failed to rollback transaction", "error", rbErr)
		}
		return err
	}
	for _, obj := range objs {
		if err := tx.Insert(&obj); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("failed to rollback transaction", "error", rbErr)
			}
			return err
		}
	}
	return tx.Commit()
}
