package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/querysparql"
)

// Query is a compiled query declaration.
//
//	query: big_cities: {
//	    where: {and: [{category: "City"}, {property: "Population", where: {cmp: ">", value: 1000000}}]}
//	    sort: [{key: "Population", order: "desc"}]
//	    limit: 10
//	}
type Query struct {
	Name        string
	Description queryir.Description
	Schema      map[string]ir.DataKind
	Sort        []querysparql.SortKey
	Limit       int
	Offset      int
	Distinct    bool
}

// CompileQuery parses one query declaration.
// A missing where field compiles to Anything.
func CompileQuery(name string, v cue.Value) (*Query, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(name, err)
	}

	q := &Query{Name: name, Description: queryir.Anything{}}

	if whereVal := v.LookupPath(cue.ParsePath("where")); whereVal.Exists() {
		desc, err := compileDescription(whereVal, name+".where")
		if err != nil {
			return nil, err
		}
		q.Description = desc
	}

	if schemaVal := v.LookupPath(cue.ParsePath("schema")); schemaVal.Exists() {
		schema, err := compileSchema(schemaVal, name+".schema")
		if err != nil {
			return nil, err
		}
		q.Schema = schema
	}

	if sortVal := v.LookupPath(cue.ParsePath("sort")); sortVal.Exists() {
		keys, err := compileSortKeys(sortVal, name+".sort")
		if err != nil {
			return nil, err
		}
		q.Sort = keys
	}

	var err error
	if q.Limit, err = optionalInt(v, "limit", name); err != nil {
		return nil, err
	}
	if q.Offset, err = optionalInt(v, "offset", name); err != nil {
		return nil, err
	}
	if distinctVal := v.LookupPath(cue.ParsePath("distinct")); distinctVal.Exists() {
		if q.Distinct, err = distinctVal.Bool(); err != nil {
			return nil, formatCUEError(name+".distinct", err)
		}
	}

	return q, nil
}

// CompileSchema parses a property -> data kind map.
//
//	schema: {Population: "number", Homepage: "uri"}
func CompileSchema(v cue.Value) (map[string]ir.DataKind, error) {
	return compileSchema(v, "schema")
}

func compileSchema(v cue.Value, field string) (map[string]ir.DataKind, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(field, err)
	}

	schema := make(map[string]ir.DataKind)
	for iter.Next() {
		prop := iter.Label()
		path := field + "." + prop
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		kind, err := ir.ParseDataKind(s)
		if err != nil {
			return nil, &CompileError{Field: path, Message: err.Error(), Pos: iter.Value().Pos()}
		}
		schema[prop] = kind
	}
	return schema, nil
}

// CompileSortKeys parses a sort list. Each entry is a property name
// (ascending) or {key, order?} where order is "asc" or "desc".
// The empty key sorts by the result itself.
func CompileSortKeys(v cue.Value) ([]querysparql.SortKey, error) {
	return compileSortKeys(v, "sort")
}

func compileSortKeys(v cue.Value, field string) ([]querysparql.SortKey, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(field, err)
	}

	keys := []querysparql.SortKey{}
	for i := 0; iter.Next(); i++ {
		path := fmt.Sprintf("%s[%d]", field, i)
		item := iter.Value()

		if s, err := item.String(); err == nil {
			keys = append(keys, querysparql.SortKey{Key: s, Direction: "ASC"})
			continue
		}

		keyVal := item.LookupPath(cue.ParsePath("key"))
		if !keyVal.Exists() {
			return nil, &CompileError{Field: path, Message: "sort entry must be a string or have a key field", Pos: item.Pos()}
		}
		key, err := keyVal.String()
		if err != nil {
			return nil, formatCUEError(path+".key", err)
		}

		direction := "ASC"
		if orderVal := item.LookupPath(cue.ParsePath("order")); orderVal.Exists() {
			order, err := orderVal.String()
			if err != nil {
				return nil, formatCUEError(path+".order", err)
			}
			switch strings.ToLower(order) {
			case "asc":
			case "desc":
				direction = "DESC"
			default:
				return nil, &CompileError{
					Field:   path + ".order",
					Message: fmt.Sprintf("invalid sort order %q: must be asc or desc", order),
					Pos:     orderVal.Pos(),
				}
			}
		}
		keys = append(keys, querysparql.SortKey{Key: key, Direction: direction})
	}
	return keys, nil
}

// CompileQueries reads every declaration under the top-level query
// struct. A top-level schema is merged under each query's own schema.
func CompileQueries(v cue.Value) ([]*Query, error) {
	var shared map[string]ir.DataKind
	if schemaVal := v.LookupPath(cue.ParsePath("schema")); schemaVal.Exists() {
		var err error
		if shared, err = CompileSchema(schemaVal); err != nil {
			return nil, err
		}
	}

	queriesVal := v.LookupPath(cue.ParsePath("query"))
	if !queriesVal.Exists() {
		return nil, nil
	}
	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, formatCUEError("query", err)
	}

	var queries []*Query
	for iter.Next() {
		q, err := CompileQuery(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		q.Schema = MergeSchema(shared, q.Schema)
		queries = append(queries, q)
	}
	return queries, nil
}

// CompileSource compiles CUE source text holding query declarations.
func CompileSource(filename, src string) ([]*Query, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(filename, err)
	}
	return CompileQueries(v)
}

// CompileDescriptionSource compiles a single description written in CUE,
// e.g. `{property: "Capital of"}`.
func CompileDescriptionSource(src string) (queryir.Description, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return nil, formatCUEError("query", err)
	}
	return CompileDescription(v)
}

func optionalInt(v cue.Value, name, prefix string) (int, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return 0, nil
	}
	if f.IncompleteKind() != cue.IntKind {
		return 0, &CompileError{
			Field:   prefix + "." + name,
			Message: "must be an int",
			Pos:     f.Pos(),
		}
	}
	n, err := f.Int64()
	if err != nil {
		return 0, formatCUEError(prefix+"."+name, err)
	}
	return int(n), nil
}

// MergeSchema overlays a query's own schema on the shared one.
func MergeSchema(shared, own map[string]ir.DataKind) map[string]ir.DataKind {
	if len(shared) == 0 {
		return own
	}
	merged := make(map[string]ir.DataKind, len(shared)+len(own))
	for k, v := range shared {
		merged[k] = v
	}
	for k, v := range own {
		merged[k] = v
	}
	return merged
}
