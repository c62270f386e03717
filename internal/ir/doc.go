// Package ir provides the literal value types carried by value filters,
// the data kinds property values belong to, and the canonical JSON encoding
// that gives a description tree a stable, content-addressed identity.
//
// This package imports nothing internal. Every other package may import ir.
//
// Key design constraints:
//   - NO float types anywhere - numbers are int64 (IRInt)
//   - Page references are values (IRPage), not strings
//   - Canonical JSON follows RFC 8785 with NFC-normalized strings
package ir
