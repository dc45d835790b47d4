// Package store caches assembled programs in a SQLite database, keyed by
// the digest of their source text.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/timsystem/spkasm/bytecode"
)

// Store is a program cache backed by a SQLite database file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Entry is a cached program.
type Entry struct {
	Digest    string
	Filename  string
	Code      *bytecode.Code
	CreatedAt time.Time
}

// Digest returns the cache key for source.
func Digest(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Open opens or creates the database at path and ensures the schema exists.
// Use ":memory:" for a private in-memory cache.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating db schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the program cached under digest. The boolean is false if
// there is none.
func (s *Store) Get(ctx context.Context, digest string) (*Entry, bool, error) {
	var (
		filename string
		bits     []byte
		created  int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT filename, bytecode, created_at FROM programs WHERE digest = $1", digest,
	).Scan(&filename, &bits, &created)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading program %s: %w", digest, err)
	}
	code, err := bytecode.Unmarshal(bits)
	if err != nil {
		return nil, false, fmt.Errorf("parsing program %s: %w", digest, err)
	}
	return &Entry{
		Digest:    digest,
		Filename:  filename,
		Code:      code,
		CreatedAt: time.Unix(created, 0).UTC(),
	}, true, nil
}

// Put stores code under digest, replacing any previous entry.
func (s *Store) Put(ctx context.Context, digest, filename string, code *bytecode.Code) error {
	bits, err := bytecode.Marshal(code)
	if err != nil {
		return fmt.Errorf("marshaling program %s: %w", digest, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO programs (digest, filename, bytecode, created_at) VALUES ($1, $2, $3, $4)",
		digest, filename, bits, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing program %s: %w", digest, err)
	}
	return nil
}

// Len returns the number of cached programs.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM programs").Scan(&n)
	return n, err
}

// Prune deletes entries created before cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM programs WHERE created_at < $1", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning programs: %w", err)
	}
	return res.RowsAffected()
}
