package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

var _ BookStorage = (*postgresBookStorage)(nil) // ensure postgresBookStorage implements BookStorage.

type postgresBookStorage struct {
	logger *zap.Logger
	db     *sql.DB
}

const bookColumns = "id, title, author, status, created_at, rating"

// GetPostgresClient opens the connection pool and verifies it with a ping.
func GetPostgresClient(config *PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %v", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping the database: %v", err)
	}
	return db, nil
}

// MigratePostgresSchema applies the versioned sql migrations at startup.
// An already up to date schema is not an error.
func MigratePostgresSchema(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to build migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", path), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// NewPostgresBookStorage provides an instance of postgres-based book storage.
func NewPostgresBookStorage(logger *zap.Logger, db *sql.DB) BookStorage {
	return &postgresBookStorage{
		logger: logger,
		db:     db,
	}
}

// Close shuts down the postgres connection pool.
func (ps *postgresBookStorage) Close() error {
	return ps.db.Close()
}

// scanBook maps one row to the Book shape.
func scanBook(s interface{ Scan(dest ...any) error }) (Book, error) {
	var book Book
	err := s.Scan(&book.ID, &book.Title, &book.Author, &book.Status, &book.CreatedAt, &book.Rating)
	return book, err
}

// GetAll retrieves every stored book, newest first.
func (ps *postgresBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC, id DESC`
	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}
	return books, nil
}

// Add inserts a new book and returns the fully materialized row so the
// column defaults (id, status, created_at, rating) are observable right away.
func (ps *postgresBookStorage) Add(ctx context.Context, title, author string) (Book, error) {
	query := `INSERT INTO books (title, author) VALUES ($1, $2) RETURNING ` + bookColumns
	book, err := scanBook(ps.db.QueryRowContext(ctx, query, title, author))
	if err != nil {
		return Book{}, fmt.Errorf("failed to insert book: %w", err)
	}
	return book, nil
}

// Toggle flips the reading status of the book with the given id. The flip
// happens in a single conditional update statement so two concurrent
// requests on the same id cannot interleave a find with a write.
func (ps *postgresBookStorage) Toggle(ctx context.Context, id int64) (Book, error) {
	query := `UPDATE books
		SET status = CASE status WHEN 'READ' THEN 'UNREAD' ELSE 'READ' END
		WHERE id = $1
		RETURNING ` + bookColumns
	book, err := scanBook(ps.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("failed to toggle book %d: %w", id, err)
	}
	return book, nil
}

// Rate writes the given rating verbatim. Range checks belong to the api
// layer, only the column constraint of 0 to 5 applies here.
func (ps *postgresBookStorage) Rate(ctx context.Context, id int64, rating int) (Book, error) {
	query := `UPDATE books SET rating = $2 WHERE id = $1 RETURNING ` + bookColumns
	book, err := scanBook(ps.db.QueryRowContext(ctx, query, id, rating))
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("failed to rate book %d: %w", id, err)
	}
	return book, nil
}

// Delete removes the book with the given id and reports whether a row
// existed. Deleting a missing id is not an error.
func (ps *postgresBookStorage) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := ps.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete book %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}
	return affected > 0, nil
}
