// Package store provides SQLite-backed storage for the property schema and
// the compilation log.
//
// Tables:
//   - properties: data kind per property, keyed by canonical property name
//   - compilations: append-only record of every where-clause produced
//
// # Ordering
//
// All ordering uses the seq INTEGER (logical clock), never timestamps.
// List queries include ORDER BY seq ASC, id ASC COLLATE BINARY so results
// are identical across runs.
//
// # Identity
//
// Compilation rows carry the content hash of the source description
// (queryir.Hash) and of the rendered clause (WhereClause.Hash), both
// computed with RFC 8785 canonical JSON and SHA-256 with domain separation.
// Row IDs are random UUIDs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
