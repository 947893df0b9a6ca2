package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oraload/oraload/internal/domain"
)

// Gateway is the narrow destination interface the import engine
// writes through. WriteBatch submits one bounded batch as a single
// write unit; failures come back typed so the engine can tell
// retryable from terminal outcomes without unwinding control flow.
type Gateway interface {
	TableExists(ctx context.Context, name string) (bool, error)
	// TableColumns returns the destination table's column names in
	// ordinal order, upper-cased.
	TableColumns(ctx context.Context, name string) ([]string, error)
	WriteBatch(ctx context.Context, table string, columns []string, rows [][]any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close()
}

// pgGateway implements Gateway on a pgx connection pool. A
// transaction is opened lazily on the first write and closed by
// Commit or Rollback, so the engine controls batch-level vs
// file-level commit scope.
type pgGateway struct {
	conn *Connection
	tx   pgx.Tx
}

// NewGateway wraps an established connection in the Gateway
// interface.
func NewGateway(conn *Connection) Gateway {
	return &pgGateway{conn: conn}
}

func (g *pgGateway) TableExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE upper(table_name) = upper($1)
	)`
	var exists bool
	if err := g.conn.Pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return exists, nil
}

func (g *pgGateway) TableColumns(ctx context.Context, name string) ([]string, error) {
	const query = `SELECT upper(column_name)
		FROM information_schema.columns
		WHERE upper(table_name) = upper($1)
		ORDER BY ordinal_position`
	rows, err := g.conn.Pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	return columns, nil
}

func (g *pgGateway) WriteBatch(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if g.tx == nil {
		tx, err := g.conn.Pool.Begin(ctx)
		if err != nil {
			return classify(fmt.Errorf("failed to begin transaction: %w", err))
		}
		g.tx = tx
	}

	// Each batch runs in a nested transaction (savepoint) so a failed
	// INSERT does not abort the outer transaction: later batches and
	// retries of this one still have a usable session.
	inner, err := g.tx.Begin(ctx)
	if err != nil {
		return classify(fmt.Errorf("failed to begin batch transaction: %w", err))
	}

	sql, args := buildInsert(table, columns, rows)
	if _, err := inner.Exec(ctx, sql, args...); err != nil {
		_ = inner.Rollback(ctx)
		return classify(fmt.Errorf("batch insert into %s failed: %w", table, err))
	}
	if err := inner.Commit(ctx); err != nil {
		return classify(fmt.Errorf("batch insert into %s failed: %w", table, err))
	}
	return nil
}

func (g *pgGateway) Commit(ctx context.Context) error {
	if g.tx == nil {
		return nil
	}
	err := g.tx.Commit(ctx)
	g.tx = nil
	if err != nil {
		return classify(fmt.Errorf("commit failed: %w", err))
	}
	return nil
}

func (g *pgGateway) Rollback(ctx context.Context) error {
	if g.tx == nil {
		return nil
	}
	err := g.tx.Rollback(ctx)
	g.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

func (g *pgGateway) Close() {
	if g.tx != nil {
		_ = g.tx.Rollback(context.Background())
		g.tx = nil
	}
	g.conn.Close()
}

// buildInsert renders one multi-row parameterized INSERT for a
// batch, preserving row order.
func buildInsert(table string, columns []string, rows [][]any) (string, []any) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	n := 1
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, value := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", n)
			n++
			args = append(args, value)
		}
		sb.WriteString(")")
	}
	return sb.String(), args
}

// classify maps a driver error onto the engine's retryable/terminal
// split. SQLSTATE class 23 (integrity), 22 (data) and 42 (schema)
// cannot succeed on retry; connection, serialization and
// lock-timeout states can. Errors without a SQLSTATE (broken
// connections, timeouts) are treated as transient.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return &domain.TransientWriteError{Err: err}
	}

	code := pgErr.Code
	switch {
	case strings.HasPrefix(code, "23"):
		return &domain.FatalWriteError{Err: err, UniqueViolation: code == "23505"}
	case strings.HasPrefix(code, "22"), strings.HasPrefix(code, "42"):
		return &domain.FatalWriteError{Err: err}
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "40"),
		strings.HasPrefix(code, "53"), strings.HasPrefix(code, "57"),
		code == "55P03":
		return &domain.TransientWriteError{Err: err}
	default:
		return &domain.FatalWriteError{Err: err}
	}
}
