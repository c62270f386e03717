// Package testutil holds deterministic ID generators for tests and the
// scenario harness.
package testutil
