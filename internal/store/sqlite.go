package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
)

// SQLite's lower() only folds ASCII; fold(x) lowercases any Unicode text
// so name lookups match "Émile" against "émile".
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, foldText)
}

func foldText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
	*repo
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
}

// repo implements Repo on top of either the database or a transaction.
type repo struct {
	q queryer
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode and foreign keys, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent and gives the
	// single-writer semantics the cascade relies on.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := newStore(db)
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func newStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db, repo: &repo{q: db}}
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite db: %w", err)
	}
	return nil
}

// WithTx executes fn within a transaction. The transaction commits only if
// fn returns nil.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx Repo) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&repo{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// now returns the current time in UTC. All stored timestamps are UTC so
// that created_at orders lexically.
func now() time.Time {
	return time.Now().UTC()
}

// getOne runs a squirrel select expected to yield one row into dest.
// A missing row becomes a not-found error naming what.
func (r *repo) getOne(ctx context.Context, dest any, b sq.SelectBuilder, op, what string) error {
	query, args, err := b.Limit(1).ToSql()
	if err != nil {
		return fmt.Errorf("building %s query: %w", op, err)
	}
	if err := sqlx.GetContext(ctx, r.q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(op, "%s not found", what)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// selectAll runs a squirrel select into dest, a pointer to a slice.
func (r *repo) selectAll(ctx context.Context, dest any, b sq.SelectBuilder, op string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building %s query: %w", op, err)
	}
	if err := sqlx.SelectContext(ctx, r.q, dest, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// execOne runs a statement that must touch exactly one row.
func (r *repo) execOne(ctx context.Context, op, what string, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return &apperr.Error{Kind: apperr.KindConflict, Op: op, Msg: what + " already exists", Err: err}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperr.NotFound(op, "%s not found", what)
	}
	return nil
}

// insert runs an INSERT and maps unique violations to conflicts.
func (r *repo) insert(ctx context.Context, op, what string, query string, args ...any) error {
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return &apperr.Error{Kind: apperr.KindConflict, Op: op, Msg: what + " already exists", Err: err}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// pushMember appends childID to the JSON membership list in
// table.column of the row parentID.
func (r *repo) pushMember(ctx context.Context, table, column, parentID, childID string) error {
	return r.editMembers(ctx, table, column, parentID, func(l model.IDList) model.IDList {
		if l.Contains(childID) {
			return l
		}
		return l.With(childID)
	})
}

// pullMember removes childID from the JSON membership list in
// table.column of the row parentID.
func (r *repo) pullMember(ctx context.Context, table, column, parentID, childID string) error {
	return r.editMembers(ctx, table, column, parentID, func(l model.IDList) model.IDList {
		return l.Without(childID)
	})
}

func (r *repo) editMembers(
	ctx context.Context,
	table, column, parentID string,
	edit func(model.IDList) model.IDList,
) error {
	op := fmt.Sprintf("updating %s.%s", table, column)
	what := strings.TrimSuffix(table, "s") + " " + parentID

	var list model.IDList
	err := r.getOne(ctx, &list,
		sq.Select(column).From(table).Where(sq.Eq{"id": parentID}), op, what)
	if err != nil {
		return err
	}

	return r.execOne(ctx, op, what,
		fmt.Sprintf("UPDATE %s SET %s = ?, updated_at = ? WHERE id = ?", table, column),
		edit(list), now(), parentID,
	)
}

// containsFold builds a case-insensitive substring predicate on column.
func containsFold(column, needle string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf("instr(fold(%s), fold(?)) > 0", column), needle)
}

// firstMatch is the ordering that makes "first match wins" deterministic.
const firstMatch = "created_at ASC, rowid ASC"

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// utcPtr normalizes an optional timestamp to UTC for storage.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
