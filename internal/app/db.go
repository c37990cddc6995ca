package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/tempizhere/pageanalyzer/internal/repository"
)

const createURLsTable = `
CREATE TABLE IF NOT EXISTS urls (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createURLChecksTable = `
CREATE TABLE IF NOT EXISTS url_checks (
    id BIGSERIAL PRIMARY KEY,
    url_id BIGINT NOT NULL REFERENCES urls (id) ON DELETE CASCADE,
    status_code INTEGER,
    h1 TEXT,
    title TEXT,
    description TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createURLChecksIndex = `CREATE INDEX IF NOT EXISTS url_checks_url_id_idx ON url_checks (url_id, id DESC)`

// DB представляет подключение к базе данных
type DB struct {
	conn *sql.DB
}

var _ repository.Database = (*DB)(nil)

// NewDB открывает подключение к PostgreSQL, проверяет его и создаёт схему
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{conn: conn}
	if err := db.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Migrate создаёт таблицы адресов и проверок, если их нет
func Migrate(ctx context.Context, db repository.Database) error {
	for _, stmt := range []string{createURLsTable, createURLChecksTable, createURLChecksIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// PingContext проверяет соединение с базой данных
func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// ExecContext выполняет SQL-запрос с аргументами
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// QueryContext выполняет SQL-запрос и возвращает множество строк
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// QueryRowContext выполняет SQL-запрос и возвращает одну строку
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}
