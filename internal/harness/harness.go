package harness

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/sparqlwhere/internal/compiler"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/querysparql"
	"github.com/roach88/sparqlwhere/internal/store"
	"github.com/roach88/sparqlwhere/internal/testutil"
	"github.com/roach88/sparqlwhere/internal/vocabulary"
)

// Harness runs scenarios against an isolated store.
type Harness struct {
	store  *store.Store
	logger *zap.Logger
}

// Run executes a scenario with a no-op logger.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, zap.NewNop())
}

// RunWithLogger executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, and
// compilation IDs are "<scenario name>-<n>" so reruns are reproducible.
//
// Execution flow:
// 1. Create fresh in-memory database and load the scenario schema
// 2. Compile the CUE query into a description
// 3. Build, render and explain the condition
// 4. Record the compilation in the log
// 5. Evaluate assertions
//
// An internal compilation error is captured in the result so that error
// assertions can check it. Malformed queries return an error.
func RunWithLogger(scenario *Scenario, logger *zap.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()
	st.SetIDGenerator(testutil.NewSequentialIDGenerator(scenario.Name))

	h := &Harness{store: st, logger: logger}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	kinds, err := scenario.SchemaKinds()
	if err != nil {
		return nil, err
	}
	if len(kinds) > 0 {
		if err := h.store.PutProperties(ctx, kinds); err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
	}
	registry, err := h.store.LoadRegistry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	desc, err := compiler.CompileDescriptionSource(scenario.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query: %w", err)
	}

	b := querysparql.NewBuilder(
		querysparql.WithRegistry(registry),
		querysparql.WithResultVariable(scenario.ResultVariable),
		querysparql.WithSortKeys(scenario.SortKeys()...),
		querysparql.WithExporter(vocabulary.NewExporter(scenario.BaseIRI)),
		querysparql.WithLogger(h.logger.With(zap.String("scenario", scenario.Name))),
	)

	result := NewResult()
	cond, err := b.BuildCondition(desc)
	if err != nil {
		if !querysparql.IsInternalError(err) {
			return nil, err
		}
		result.CompileErr = err
	} else {
		result.Explanation = b.Explain(cond)
		result.Where = b.Render(cond)
		result.Select, err = b.BuildSelect(cond, querysparql.SelectOptions{
			Distinct: scenario.Select.Distinct,
			Limit:    scenario.Select.Limit,
			Offset:   scenario.Select.Offset,
		})
		if err != nil {
			result.CompileErr = err
		}
	}

	if result.CompileErr == nil {
		if err := h.record(ctx, scenario, desc, b, result); err != nil {
			return nil, err
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// record appends the compilation to the scenario's log.
func (h *Harness) record(ctx context.Context, scenario *Scenario, desc queryir.Description, b *querysparql.Builder, result *Result) error {
	descHash, err := queryir.Hash(desc)
	if err != nil {
		return fmt.Errorf("failed to hash description: %w", err)
	}
	rec, err := h.store.RecordCompilation(ctx, store.Compilation{
		QueryName:       scenario.Name,
		DescriptionHash: descHash,
		Where:           result.Where,
		ResultVariable:  b.ResultVariable(),
		SortKeys:        b.SortKeys(),
	})
	if err != nil {
		return fmt.Errorf("failed to record compilation: %w", err)
	}
	result.CompilationID = rec.ID
	return nil
}
