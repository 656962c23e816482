// Package services implements the driving port interfaces.
// Services orchestrate the pipeline engines (textnorm, segmenter, risk,
// suggest, plausibility) and the driven ports (stores, caches, metrics).
//
// Services are pure Go with no CGO dependencies.
package services
