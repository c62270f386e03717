package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sparqlwhere/internal/compiler"
	"github.com/roach88/sparqlwhere/internal/config"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/querysparql"
	"github.com/roach88/sparqlwhere/internal/schema"
	"github.com/roach88/sparqlwhere/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Query          string // compile only this query
	Select         bool   // print the full SELECT query
	Explain        bool   // print the condition explanation
	DB             string // property registry and compilation log
	BaseIRI        string
	ResultVariable string
	Sort           string // "key:dir,key" form
	AllPrefixes    bool
}

// CompiledQuery is the outcome of compiling one query declaration.
type CompiledQuery struct {
	Name          string                  `json:"name"`
	Where         string                  `json:"where"`
	Namespaces    map[string]string       `json:"namespaces,omitempty"`
	Select        string                  `json:"select,omitempty"`
	Explanation   querysparql.Explanation `json:"explanation"`
	CompilationID string                  `json:"compilation_id,omitempty"`
}

// CompilationResult holds every compiled query.
type CompilationResult struct {
	Queries []CompiledQuery `json:"queries"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file.cue|dir>",
		Short: "Compile CUE queries to SPARQL where clauses",
		Long: `Compile CUE query declarations into SPARQL where clauses.

Each query under the top-level "query" struct is compiled with the
property kinds from its schema (and the --db registry, if given).
With --select the complete SELECT query is printed instead.

Settings are read from --config and SPARQLWHERE_* environment variables.
Values in the query file override them and flags override both.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "compile only the named query")
	cmd.Flags().BoolVar(&opts.Select, "select", false, "print the complete SELECT query")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "print the condition explanation")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database holding the property registry and compilation log")
	cmd.Flags().StringVar(&opts.BaseIRI, "base-iri", "", "wiki base IRI")
	cmd.Flags().StringVar(&opts.ResultVariable, "result-variable", "", "result variable name")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", `sort keys, e.g. "Population:desc,Name"`)
	cmd.Flags().BoolVar(&opts.AllPrefixes, "all-prefixes", false, "declare every known namespace in the SELECT query")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
	ctx := cmdContext(cmd)

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return outputCompileError(formatter, ErrCodeConfig, err.Error(), nil)
	}

	// Use shared loader with collect-all mode
	loadResult, loadErrors := LoadQueries(path, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	queries := loadResult.Queries
	if opts.Query != "" {
		queries = filterQueries(queries, opts.Query)
		if len(queries) == 0 {
			return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("query %q not found", opts.Query), nil)
		}
	}

	var st *store.Store
	if cfg.DB != "" {
		st, err = store.Open(cfg.DB)
		if err != nil {
			return outputCompileError(formatter, ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
		}
		defer st.Close()
	}

	result := &CompilationResult{}
	var queryErrs []error
	for _, q := range queries {
		formatter.VerboseLog("Compiling query: %s", q.Name)
		compiled, err := compileQuery(ctx, opts, cfg, st, q)
		if err != nil {
			if querysparql.IsInternalError(err) || querysparql.IsSortKeyError(err) {
				queryErrs = append(queryErrs, fmt.Errorf("%s: %w", q.Name, err))
				continue
			}
			return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
		}
		result.Queries = append(result.Queries, compiled)
	}
	if len(queryErrs) > 0 {
		return outputCompileErrors(formatter, queryErrs)
	}

	return outputCompileSuccess(formatter, result, opts)
}

// resolveConfig layers command flags over the loaded configuration.
func resolveConfig(opts *CompileOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DB = opts.DB
	}
	if flags.Changed("base-iri") {
		cfg.BaseIRI = opts.BaseIRI
	}
	if flags.Changed("result-variable") {
		cfg.ResultVariable = opts.ResultVariable
	}
	if flags.Changed("all-prefixes") {
		cfg.AllPrefixes = opts.AllPrefixes
	}
	if flags.Changed("sort") {
		keys, err := config.ParseSortSpec(opts.Sort)
		if err != nil {
			return nil, fmt.Errorf("--sort: %w", err)
		}
		cfg.Sort = keys
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// compileQuery builds one query. Sort keys and SELECT modifiers declared
// in the query override the configuration unless --sort was given.
func compileQuery(ctx context.Context, opts *CompileOptions, cfg *config.Config, st *store.Store, q *compiler.Query) (CompiledQuery, error) {
	registry := schema.NewMapRegistry(nil)
	if st != nil {
		var err error
		if registry, err = st.LoadRegistry(ctx); err != nil {
			return CompiledQuery{}, fmt.Errorf("loading registry: %w", err)
		}
	}
	for name, kind := range q.Schema {
		registry.Set(name, kind)
	}

	builderOpts := append(cfg.BuilderOptions(),
		querysparql.WithRegistry(registry),
		querysparql.WithLogger(opts.logger().With(zap.String("query", q.Name))),
	)
	if len(q.Sort) > 0 && opts.Sort == "" {
		builderOpts = append(builderOpts, querysparql.WithSortKeys(q.Sort...))
	}
	b := querysparql.NewBuilder(builderOpts...)

	where, cond, err := b.Compile(q.Description)
	if err != nil {
		return CompiledQuery{}, err
	}

	compiled := CompiledQuery{
		Name:        q.Name,
		Where:       where.Text,
		Namespaces:  where.Namespaces,
		Explanation: b.Explain(cond),
	}

	if opts.Select || opts.Format == "json" {
		selectOpts := cfg.SelectOptions()
		if q.Limit > 0 {
			selectOpts.Limit = q.Limit
		}
		if q.Offset > 0 {
			selectOpts.Offset = q.Offset
		}
		selectOpts.Distinct = selectOpts.Distinct || q.Distinct
		if compiled.Select, err = b.BuildSelect(cond, selectOpts); err != nil {
			return CompiledQuery{}, err
		}
	}

	if st != nil {
		descHash, err := queryir.Hash(q.Description)
		if err != nil {
			return CompiledQuery{}, fmt.Errorf("hashing description: %w", err)
		}
		rec, err := st.RecordCompilation(ctx, store.Compilation{
			QueryName:       q.Name,
			DescriptionHash: descHash,
			Where:           where,
			ResultVariable:  b.ResultVariable(),
			SortKeys:        b.SortKeys(),
		})
		if err != nil {
			return CompiledQuery{}, fmt.Errorf("recording compilation: %w", err)
		}
		compiled.CompilationID = rec.ID
	}

	return compiled, nil
}

func filterQueries(queries []*compiler.Query, name string) []*compiler.Query {
	for _, q := range queries {
		if q.Name == name {
			return []*compiler.Query{q}
		}
	}
	return nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, opts *CompileOptions) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for i, q := range result.Queries {
		if len(result.Queries) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", q.Name)
		}
		if opts.Select {
			fmt.Fprint(w, q.Select)
		} else {
			fmt.Fprint(w, q.Where)
		}
		if opts.Explain {
			if err := writeExplanation(w, q.Explanation); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeExplanation(w io.Writer, e querysparql.Explanation) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling explanation: %w", err)
	}
	fmt.Fprintln(w, "---")
	_, err = w.Write(data)
	return err
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		if err := formatter.Respond(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var internal *querysparql.InternalError
	if errors.As(err, &internal) {
		return ErrCodeInternal, strings.TrimSpace(err.Error())
	}
	var sortErr *querysparql.SortKeyError
	if errors.As(err, &sortErr) {
		return compiler.ErrDuplicateSortKey, err.Error()
	}
	return ErrCodeGeneric, err.Error()
}
