// Package connectors holds sources that feed documents into the analysis
// pipeline. The filesystem connector watches an inbox directory.
package connectors
