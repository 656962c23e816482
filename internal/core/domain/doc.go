// Package domain defines the core business entities for clauseguard.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Clause: A segmented unit of contract text with its ordinal
//   - RiskFinding: The scorer's verdict for one clause
//   - RuleSet: Immutable keyword configuration shared by the engines
//   - Analysis: A complete, serialisable analysis record
//   - RawDocument: Opaque bytes of an uploaded contract
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
