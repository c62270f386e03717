package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sparqlwhere/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database    string
	Description string // optional - only compilations of this description hash
	Query       string // optional - filter to a query name
}

// TraceEvent is one recorded compilation in the timeline.
type TraceEvent struct {
	Seq             int64    `json:"seq"`
	ID              string   `json:"id"`
	QueryName       string   `json:"query_name"`
	DescriptionHash string   `json:"description_hash"`
	WhereHash       string   `json:"where_hash"`
	ResultVariable  string   `json:"result_variable"`
	SortKeys        []string `json:"sort_keys,omitempty"`
	Where           string   `json:"where"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Description string       `json:"description,omitempty"`
	Timeline    []TraceEvent `json:"timeline"`
	Stats       TraceStats   `json:"stats"`
}

// TraceStats summarizes the timeline.
type TraceStats struct {
	Compilations int `json:"compilations"`
	Queries      int `json:"queries"`
	Descriptions int `json:"descriptions"`
	WhereClauses int `json:"where_clauses"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "trace",
		Aliases: []string{"log"},
		Short:   "List recorded compilations",
		Long: `List the compilation log written by compile --db.

Each entry shows the query, the hash of its description and the hash of
the where clause it compiled to, in the order they were recorded. A
description that compiles to several where clauses over time (after a
schema change, say) shows up with more than one where hash.

Examples:
  sparqlwhere trace --db ./registry.db
  sparqlwhere trace --db ./registry.db --query big_cities -v
  sparqlwhere trace --db ./registry.db --description 3f2a... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Description, "description", "", "only compilations of this description hash")
	cmd.Flags().StringVar(&opts.Query, "query", "", "filter to a query name")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmdContext(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var recs []store.Compilation
	if opts.Description != "" {
		recs, err = st.ReadCompilationsForDescription(ctx, opts.Description)
	} else {
		recs, err = st.ReadCompilations(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read compilations", err)
	}

	result := TraceResult{
		Description: opts.Description,
		Timeline:    buildTimeline(recs, opts.Query),
	}
	result.Stats = traceStats(result.Timeline)

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	if len(result.Timeline) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), noCompilationsMessage(opts))
		return nil
	}
	return outputTraceText(cmd.OutOrStdout(), result, opts.Verbose)
}

func noCompilationsMessage(opts *TraceOptions) string {
	switch {
	case opts.Description != "":
		return "No compilations found for description: " + opts.Description
	case opts.Query != "":
		return "No compilations found for query: " + opts.Query
	default:
		return "No compilations recorded"
	}
}

// buildTimeline converts log records to trace events, keeping only
// queryFilter when it is set. Records arrive in seq order.
func buildTimeline(recs []store.Compilation, queryFilter string) []TraceEvent {
	timeline := []TraceEvent{}
	for _, rec := range recs {
		if queryFilter != "" && rec.QueryName != queryFilter {
			continue
		}
		keys := make([]string, 0, len(rec.SortKeys))
		for _, sk := range rec.SortKeys {
			keys = append(keys, formatSortKey(sk.Key, sk.Direction))
		}
		timeline = append(timeline, TraceEvent{
			Seq:             rec.Seq,
			ID:              rec.ID,
			QueryName:       rec.QueryName,
			DescriptionHash: rec.DescriptionHash,
			WhereHash:       rec.WhereHash,
			ResultVariable:  rec.ResultVariable,
			SortKeys:        keys,
			Where:           rec.Where.Text,
		})
	}
	return timeline
}

// formatSortKey renders a sort key the way --sort accepts it.
func formatSortKey(key, direction string) string {
	if direction == "" {
		direction = "ASC"
	}
	return key + ":" + strings.ToLower(direction)
}

func traceStats(timeline []TraceEvent) TraceStats {
	queries := make(map[string]bool)
	descriptions := make(map[string]bool)
	wheres := make(map[string]bool)
	for _, e := range timeline {
		queries[e.QueryName] = true
		descriptions[e.DescriptionHash] = true
		wheres[e.WhereHash] = true
	}
	return TraceStats{
		Compilations: len(timeline),
		Queries:      len(queries),
		Descriptions: len(descriptions),
		WhereClauses: len(wheres),
	}
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: result})
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	if result.Description != "" {
		fmt.Fprintf(w, "Trace for Description: %s\n\n", result.Description)
	}

	fmt.Fprintln(w, "=== Timeline ===")
	for _, e := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %s %s -> %s\n", e.Seq, e.QueryName, truncateID(e.DescriptionHash), truncateID(e.WhereHash))
		if !verbose {
			continue
		}
		fmt.Fprintf(w, "       ID: %s\n", e.ID)
		if len(e.SortKeys) > 0 {
			fmt.Fprintf(w, "       Sort: %s\n", strings.Join(e.SortKeys, ", "))
		}
		for _, line := range strings.Split(strings.TrimRight(e.Where, "\n"), "\n") {
			fmt.Fprintf(w, "       | %s\n", line)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Compilations:  %d\n", result.Stats.Compilations)
	fmt.Fprintf(w, "  Queries:       %d\n", result.Stats.Queries)
	fmt.Fprintf(w, "  Descriptions:  %d\n", result.Stats.Descriptions)
	fmt.Fprintf(w, "  Where clauses: %d\n", result.Stats.WhereClauses)
	return nil
}

// truncateID shortens a long hash or ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
