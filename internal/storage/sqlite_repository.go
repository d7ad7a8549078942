package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens the record store at path and applies migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: empty path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Put inserts or replaces the record called name.
func (r *SQLiteRepository) Put(ctx context.Context, name, recordType string, data []byte) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("storage: record name is required")
	}
	if data == nil {
		data = []byte{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (name, record_type, data, modified_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			record_type = excluded.record_type,
			data = excluded.data,
			modified_at = excluded.modified_at`,
		name, recordType, data, mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) ([]byte, error) {
	rec, err := r.GetRecord(ctx, name)
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

func (r *SQLiteRepository) GetRecord(ctx context.Context, name string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, record_type, data, modified_at
		FROM records WHERE name = ?`, name)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE name = ?`, name)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) List(ctx context.Context, filter RecordListFilter) ([]Record, error) {
	query := `SELECT name, record_type, data, modified_at FROM records`
	args := make([]any, 0, 3)
	if filter.Type != "" {
		query += ` WHERE record_type = ?`
		args = append(args, filter.Type)
	}
	query += ` ORDER BY modified_at DESC, name ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var out Record
	var modified string
	if err := s.Scan(&out.Name, &out.Type, &out.Data, &modified); err != nil {
		return Record{}, err
	}
	modifiedAt, err := parseRequiredTime(modified)
	if err != nil {
		return Record{}, err
	}
	out.ModifiedAt = modifiedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
