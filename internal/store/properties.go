package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/schema"
)

// Property is one row of the property schema.
type Property struct {
	Name string      `json:"name"`
	Kind ir.DataKind `json:"kind"`
	Seq  int64       `json:"seq"`
}

// PutProperty records the data kind of a property. The name is stored in
// canonical form, so "located_in" and "Located in" share a row.
// Re-declaring a property replaces its kind and moves it to the end of
// the log order.
func (s *Store) PutProperty(ctx context.Context, name string, kind ir.DataKind) error {
	return s.PutProperties(ctx, map[string]ir.DataKind{name: kind})
}

// PutProperties records several properties in one transaction, in sorted
// name order so seq assignment is deterministic.
func (s *Store) PutProperties(ctx context.Context, kinds map[string]ir.DataKind) error {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		if !schema.ValidPropertyKey(name) {
			return fmt.Errorf("put property: invalid property name %q", name)
		}
		if kinds[name] == ir.KindUnknown {
			return fmt.Errorf("put property: %q has unknown data kind", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put properties: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM properties`).Scan(&seq); err != nil {
		return fmt.Errorf("put properties: next seq: %w", err)
	}

	for _, name := range names {
		seq++
		_, err := tx.ExecContext(ctx, `
			INSERT INTO properties (name, kind, seq)
			VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, seq = excluded.seq
		`, schema.PropertyKey(name), kinds[name].String(), seq)
		if err != nil {
			return fmt.Errorf("put property %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put properties: commit: %w", err)
	}
	return nil
}

// Properties returns every stored property ordered by seq.
func (s *Store) Properties(ctx context.Context) ([]Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, seq
		FROM properties
		ORDER BY seq ASC, name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	props := []Property{}
	for rows.Next() {
		var p Property
		var kind string
		if err := rows.Scan(&p.Name, &kind, &p.Seq); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		if p.Kind, err = ir.ParseDataKind(kind); err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name, err)
		}
		props = append(props, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return props, nil
}

// LoadRegistry builds an in-memory registry from the stored schema.
// Properties not in the store resolve to the page kind.
func (s *Store) LoadRegistry(ctx context.Context) (*schema.MapRegistry, error) {
	props, err := s.Properties(ctx)
	if err != nil {
		return nil, err
	}
	kinds := make(map[string]ir.DataKind, len(props))
	for _, p := range props {
		kinds[p.Name] = p.Kind
	}
	return schema.NewMapRegistry(kinds), nil
}
