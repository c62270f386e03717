package harness

import "github.com/roach88/sparqlwhere/internal/querysparql"

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Explanation describes the root condition. Zero when compilation
	// failed.
	Explanation querysparql.Explanation `json:"explanation"`

	// Where is the rendered where-clause.
	Where querysparql.WhereClause `json:"where"`

	// Select is the complete SELECT query.
	Select string `json:"select,omitempty"`

	// CompilationID identifies the compilation log entry.
	CompilationID string `json:"compilation_id,omitempty"`

	// CompileErr is the internal error that aborted compilation, if any.
	CompileErr error `json:"-"`

	// Errors contains failed assertion messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
