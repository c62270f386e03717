package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/sparqlwhere/internal/compiler"
	"github.com/roach88/sparqlwhere/internal/ir"
)

// LoadMode controls how errors are handled during query loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the queries loaded from a file or directory.
type LoadResult struct {
	Queries   []*compiler.Query
	Schema    map[string]ir.DataKind // top-level schema shared by all queries
	CUEValue  cue.Value
	FileCount int
}

// LoadError represents an error that occurred during query loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadValue builds the CUE value for path, which is either a single .cue
// file or a directory holding one package.
func LoadValue(path string) (cue.Value, int, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	fileCount := 0
	if info.IsDir() {
		cueFiles, err := FindCUEFiles(path)
		if err != nil {
			return cue.Value{}, 0, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(cueFiles) == 0 {
			return cue.Value{}, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
		}
		fileCount = len(cueFiles)
	} else {
		if filepath.Ext(path) != ".cue" {
			return cue.Value{}, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a CUE file: %s", path)}
		}
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
		fileCount = 1
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, fileCount, nil
}

// LoadQueries loads and compiles every query declared under path.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadQueries(path string, mode LoadMode) (*LoadResult, []error) {
	value, fileCount, err := LoadValue(path)
	if err != nil {
		return nil, []error{err}
	}

	result := &LoadResult{CUEValue: value, FileCount: fileCount}
	var errs []error

	if schemaVal := value.LookupPath(cue.ParsePath("schema")); schemaVal.Exists() {
		shared, err := compiler.CompileSchema(schemaVal)
		if err != nil {
			errs = append(errs, convertCompileError(err, "schema"))
			if mode == LoadModeFailFast {
				return result, errs
			}
		}
		result.Schema = shared
	}

	queriesVal := value.LookupPath(cue.ParsePath("query"))
	if queriesVal.Exists() {
		iter, iterErr := queriesVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating queries: %v", iterErr)})
			return result, errs
		}
		for iter.Next() {
			q, compileErr := compiler.CompileQuery(iter.Label(), iter.Value())
			if compileErr != nil {
				errs = append(errs, convertCompileError(compileErr, "query."+iter.Label()))
				if mode == LoadModeFailFast {
					return result, errs
				}
				continue
			}
			q.Schema = compiler.MergeSchema(result.Schema, q.Schema)
			result.Queries = append(result.Queries, q)
		}
	}

	if len(result.Queries) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no queries found"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		code := MapFieldToErrorCode(compileErr.Field)
		if strings.HasPrefix(compileErr.Message, "float values") {
			code = compiler.ErrFloatTypeForbidden
		}
		return &LoadError{
			Code:    code,
			Message: compileErr.Field + ": " + compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Database open or write error
	ErrCodeConfig      = "E009" // Configuration error
	ErrCodeInternal    = "E010" // Builder internal error
)

// MapFieldToErrorCode maps a compiler error field to an error code.
// Fields are paths such as "query.cities.where.and[0].value".
func MapFieldToErrorCode(field string) string {
	last := lastSegment(field)
	switch {
	case containsSegment(field, "schema"):
		return compiler.ErrUnknownDataKind
	case containsSegment(field, "sort"):
		return compiler.ErrInvalidSortKey
	case last == "value" || last == "cmp" || last == "property":
		return compiler.ErrInvalidProperty
	case last == "limit" || last == "offset":
		return compiler.ErrNegativeBound
	case containsSegment(field, "where") || field == "query":
		return compiler.ErrEmptyDescription
	default:
		return ErrCodeGeneric
	}
}

func segments(field string) []string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		if j := strings.IndexByte(p, '['); j >= 0 {
			parts[i] = p[:j]
		}
	}
	return parts
}

func lastSegment(field string) string {
	parts := segments(field)
	return parts[len(parts)-1]
}

func containsSegment(field, name string) bool {
	for _, p := range segments(field) {
		if p == name {
			return true
		}
	}
	return false
}
