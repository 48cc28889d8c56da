package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect - различия SQL между sqlite и postgres
type Dialect struct {
	Name   string
	Schema string
	Insert string
}

var (
	SQLite = Dialect{
		Name:   "sqlite",
		Schema: `CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY)`,
		Insert: `INSERT OR IGNORE INTO users (id) VALUES (?)`,
	}
	Postgres = Dialect{
		Name:   "postgres",
		Schema: `CREATE TABLE IF NOT EXISTS users (id BIGINT PRIMARY KEY)`,
		Insert: `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
	}
)

const selectUsers = `SELECT id FROM users`

type SQLUserStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLiteUserStore(ctx context.Context, path string) (*SQLUserStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// sqlite не любит конкурентных писателей
	db.SetMaxOpenConns(1)
	return newStore(ctx, db, SQLite)
}

func NewPostgresUserStore(ctx context.Context, dsn string) (*SQLUserStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	return newStore(ctx, db, Postgres)
}

func newStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLUserStore, error) {
	store, err := NewSQLUserStore(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLUserStore создаёт таблицу users, если её ещё нет
func NewSQLUserStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLUserStore, error) {
	if _, err := db.ExecContext(ctx, dialect.Schema); err != nil {
		return nil, fmt.Errorf("failed to initialize %s schema: %w", dialect.Name, err)
	}
	return &SQLUserStore{db: db, dialect: dialect}, nil
}

func (s *SQLUserStore) InsertIfAbsent(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Insert, userID); err != nil {
		return fmt.Errorf("failed to save user %d: %w", userID, err)
	}
	return nil
}

func (s *SQLUserStore) ListAll(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, selectUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return ids, nil
}

func (s *SQLUserStore) Close() error {
	return s.db.Close()
}
