package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/stationhq/media-api/internal/record"
)

type DB struct {
	*sqlx.DB
}

// Initialize opens the sqlite database at dbPath, creating the directory
// when needed, and configures the connection pool.
func Initialize(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Migrate provisions the given table schemas plus the sequence table
// backing primary-key assignment. Existing tables are left alone.
func (db *DB) Migrate(schemas ...*record.Schema) error {
	ddl := []string{sequenceTableSQL}
	for _, s := range schemas {
		ddl = append(ddl, CreateTableSQL(s))
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	log.Printf("Successfully migrated %d table(s)", len(schemas))
	return nil
}

const sequenceTableSQL = `CREATE TABLE IF NOT EXISTS sequence (
	name TEXT PRIMARY KEY,
	last_value INTEGER NOT NULL
)`

// CreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for one
// schema. Dialect specifics beyond sqlite are out of scope.
func CreateTableSQL(s *record.Schema) string {
	cols := make([]string, 0, len(s.Fields))
	var fks []string
	for i := range s.Fields {
		f := &s.Fields[i]
		col := f.Column + " " + columnType(f.Type)
		if f.PrimaryKey {
			col += " PRIMARY KEY"
		} else if f.Required {
			col += " NOT NULL"
		}
		cols = append(cols, "\t"+col)
		if f.References != nil {
			fks = append(fks, fmt.Sprintf("\tFOREIGN KEY (%s) REFERENCES %s(%s)",
				f.Column, f.References.Table, f.References.PrimaryKey().Column))
		}
	}
	cols = append(cols, fks...)
	return "CREATE TABLE IF NOT EXISTS " + s.Table + " (\n" +
		strings.Join(cols, ",\n") + "\n)"
}

func columnType(t record.Type) string {
	switch t {
	case record.TypeInt:
		return "INTEGER"
	case record.TypeBool:
		return "BOOLEAN"
	case record.TypeFloat:
		return "REAL"
	case record.TypeTime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
