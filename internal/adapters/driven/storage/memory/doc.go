// Package memory provides in-memory implementations of driven port interfaces.
// They back the database-free storage mode and tests.
package memory
