package cli

import (
	"context"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"github.com/spf13/cobra"

	"github.com/roach88/sparqlwhere/internal/compiler"
	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/store"
)

// SchemaOptions holds flags for the schema subcommands.
type SchemaOptions struct {
	*RootOptions
	DB string
}

// SchemaImportResult reports the properties written by schema import.
type SchemaImportResult struct {
	Imported   int              `json:"imported"`
	Properties []store.Property `json:"properties"`
}

// NewSchemaCommand creates the schema command and its subcommands.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the property registry",
		Long: `Manage the property registry stored in a SQLite database.

The registry records the data kind of each property. compile --db reads
it to decide how sort keys are bound. Undeclared properties are pages.`,
	}
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "SQLite database (defaults to the configured db)")

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.cue|dir>",
		Short: "Import property kinds from a CUE schema",
		Long: `Import the top-level schema struct and every query schema into the
registry. Existing properties are updated in place.

Example:
  schema: {Population: "number", Homepage: "uri"}`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaImport(opts, args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List registered properties",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaList(opts, cmd)
		},
	})

	return cmd
}

// openRegistry opens the database named by --db or the configuration.
func (o *SchemaOptions) openRegistry() (*store.Store, error) {
	path := o.DB
	if path == "" {
		cfg, err := o.loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.DB
	}
	if path == "" {
		return nil, errors.New("no database: pass --db or set SPARQLWHERE_DB")
	}
	return store.Open(path)
}

func runSchemaImport(opts *SchemaOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmdContext(cmd)

	value, _, err := LoadValue(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	kinds, err := collectSchema(value)
	if err != nil {
		return outputCompileErrors(formatter, []error{convertCompileError(err, "schema")})
	}
	if len(kinds) == 0 {
		return outputCompileError(formatter, ErrCodeGeneric, "no schema found", nil)
	}

	st, err := opts.openRegistry()
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	if err := st.PutProperties(ctx, kinds); err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}
	opts.logger().Debug("schema imported")
	formatter.VerboseLog("Imported %d propert(ies) from %s", len(kinds), path)

	props, err := st.Properties(ctx)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	result := SchemaImportResult{Imported: len(kinds), Properties: props}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Imported %d propert(ies), registry holds %d\n", result.Imported, len(props))
	return nil
}

// collectSchema merges the top-level schema with each query's schema.
// Query schemas win on conflict, in declaration order.
func collectSchema(value cue.Value) (map[string]ir.DataKind, error) {
	kinds := make(map[string]ir.DataKind)
	if schemaVal := value.LookupPath(cue.ParsePath("schema")); schemaVal.Exists() {
		shared, err := compiler.CompileSchema(schemaVal)
		if err != nil {
			return nil, err
		}
		kinds = compiler.MergeSchema(kinds, shared)
	}

	queriesVal := value.LookupPath(cue.ParsePath("query"))
	if !queriesVal.Exists() {
		return kinds, nil
	}
	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, err
	}
	for iter.Next() {
		schemaVal := iter.Value().LookupPath(cue.ParsePath("schema"))
		if !schemaVal.Exists() {
			continue
		}
		own, err := compiler.CompileSchema(schemaVal)
		if err != nil {
			return nil, err
		}
		kinds = compiler.MergeSchema(kinds, own)
	}
	return kinds, nil
}

func runSchemaList(opts *SchemaOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := opts.openRegistry()
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	props, err := st.Properties(cmdContext(cmd))
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(props)
	}
	for _, p := range props {
		fmt.Fprintf(formatter.Writer, "%s\t%s\n", p.Name, p.Kind)
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
