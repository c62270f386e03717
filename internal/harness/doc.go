// Package harness runs compilation scenarios for the where-clause builder.
//
// A scenario names a query written in CUE, the property schema it runs
// against, the requested ordering, and assertions on the compiled
// condition. Scenarios can also snapshot the complete SELECT query in a
// golden file.
//
// # Scenario Format
//
//	name: cities_by_population
//	description: "Cities ordered by population"
//	query: |
//	  {and: [{category: "City"}, {property: "Population", where: {cmp: ">", value: 1000000}}]}
//	schema:
//	  Population: number
//	sort:
//	  - key: Population
//	    direction: desc
//	select:
//	  limit: 10
//	assertions:
//	  - type: kind
//	    kind: where
//	  - type: contains
//	    text: "?result property:Population ?v1 ."
//	  - type: order_variable
//	    key: Population
//	    variable: v1
//
// # Assertion Types
//
//   - kind: the root condition kind (true, false, where, filter, singleton)
//   - safe: whether the root condition is safe
//   - contains / not_contains: substring of the rendered where-clause
//   - where_equals: the exact rendered where-clause
//   - order_variable: the variable recorded for a sort key
//   - namespace: a prefix declared by the rendered clause
//   - error: compilation fails with the given internal error code
//
// # Determinism
//
// Each scenario runs against a fresh in-memory store holding its schema.
// Fresh variables restart at v1 for every compilation, so rendered text is
// identical across runs and suitable for golden comparison.
package harness
