// Package extractors provides implementations of the Extractor interface
// for the document formats a contract may arrive in. Each extractor knows
// how to turn one format into UTF-8 text.
//
// Extractors are registered with the Registry at startup.
package extractors
