// Package store persists the depot collections as JSON blobs under fixed
// keys in a single key-value table. SQLite backs single-operator installs
// and tests; MySQL backs shared installs. Concurrent writers are not
// reconciled — last write wins at the storage layer.
package store

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a MySQL DSN for a shared depot database.
func DSN(host string, port int, database string) string {
	return fmt.Sprintf("root@tcp(%s:%d)/%s?parseTime=true", host, port, database)
}

// OpenSQLite opens (or creates) a file-backed store. The path ":memory:"
// yields an in-process database, which the tests use.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %s: %w", path, err)
	}
	return db, nil
}

// OpenMySQL opens a shared depot database over the MySQL protocol.
func OpenMySQL(host string, port int, database string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN(host, port, database)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: connect to %s:%d/%s: %w", host, port, database, err)
	}
	return db, nil
}

// AutoMigrate creates or updates the blob table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&StateBlob{}); err != nil {
		return fmt.Errorf("store: auto-migrate: %w", err)
	}
	return nil
}
