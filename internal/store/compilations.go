package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sparqlwhere/internal/querysparql"
)

// Compilation is one entry of the compilation log.
type Compilation struct {
	ID              string
	Seq             int64
	QueryName       string
	DescriptionHash string
	WhereHash       string
	Where           querysparql.WhereClause
	ResultVariable  string
	SortKeys        []querysparql.SortKey
}

// ErrNotFound is returned when a compilation does not exist.
var ErrNotFound = errors.New("compilation not found")

// RecordCompilation appends c to the log and returns it with ID and Seq
// filled in. An empty ID comes from the store's IDGenerator; Seq is always assigned as the
// next logical position and any caller value is ignored.
func (s *Store) RecordCompilation(ctx context.Context, c Compilation) (Compilation, error) {
	if c.ID == "" {
		c.ID = s.ids.Generate()
	}
	if c.WhereHash == "" {
		h, err := c.Where.Hash()
		if err != nil {
			return Compilation{}, fmt.Errorf("record compilation: %w", err)
		}
		c.WhereHash = h
	}

	nsJSON, err := marshalNamespaces(c.Where.Namespaces)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}
	sortJSON, err := marshalSortKeys(c.SortKeys)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations`).Scan(&c.Seq); err != nil {
		return Compilation{}, fmt.Errorf("record compilation: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compilations
		(id, seq, query_name, description_hash, where_hash, where_text, namespaces, result_variable, sort_keys)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Seq,
		c.QueryName,
		c.DescriptionHash,
		c.WhereHash,
		c.Where.Text,
		nsJSON,
		c.ResultVariable,
		sortJSON,
	)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Compilation{}, fmt.Errorf("record compilation: commit: %w", err)
	}
	return c, nil
}

const compilationColumns = `id, seq, query_name, description_hash, where_hash, where_text, namespaces, result_variable, sort_keys`

// ReadCompilation returns the compilation with the given ID.
func (s *Store) ReadCompilation(ctx context.Context, id string) (Compilation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+compilationColumns+`
		FROM compilations
		WHERE id = ?
	`, id)

	c, err := scanCompilation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, ErrNotFound)
	}
	return c, err
}

// ReadCompilations returns the whole log in seq order.
func (s *Store) ReadCompilations(ctx context.Context) ([]Compilation, error) {
	return s.queryCompilations(ctx, `
		SELECT `+compilationColumns+`
		FROM compilations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// ReadCompilationsForDescription returns every compilation of the
// description with the given hash, in seq order.
func (s *Store) ReadCompilationsForDescription(ctx context.Context, descriptionHash string) ([]Compilation, error) {
	return s.queryCompilations(ctx, `
		SELECT `+compilationColumns+`
		FROM compilations
		WHERE description_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, descriptionHash)
}

// GetLastSeq returns the highest seq in the log, or 0 when it is empty.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM compilations`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

func (s *Store) queryCompilations(ctx context.Context, query string, args ...any) ([]Compilation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	out := []Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompilation(r rowScanner) (Compilation, error) {
	var c Compilation
	var nsJSON, sortJSON string
	if err := r.Scan(
		&c.ID, &c.Seq, &c.QueryName, &c.DescriptionHash, &c.WhereHash,
		&c.Where.Text, &nsJSON, &c.ResultVariable, &sortJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Compilation{}, err
		}
		return Compilation{}, fmt.Errorf("scan compilation: %w", err)
	}

	var err error
	if c.Where.Namespaces, err = unmarshalNamespaces(nsJSON); err != nil {
		return Compilation{}, err
	}
	if c.SortKeys, err = unmarshalSortKeys(sortJSON); err != nil {
		return Compilation{}, err
	}
	return c, nil
}
