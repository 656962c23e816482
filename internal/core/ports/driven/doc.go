// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Turns raw document bytes into UTF-8 text
//   - ExtractorRegistry: Selects the appropriate extractor
//   - Scorer: Maps a clause to a RiskFinding
//   - AnalysisStore: Analysis persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LanguageIdentifier: Statistical language ID. Without it, the Devanagari heuristic decides.
//   - LLMService: Language model. Without it, only the keyword scorer runs.
//   - EmbeddingService: Vector embeddings. Without it, clauses are not matched to templates.
//   - ResultCache: Analysis cache keyed by content hash.
//   - MetricsRecorder: Pipeline metrics.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or scorer package
package driven
