// Package cli implements the reqmatch command line: validating expectation
// files, routing a single request against them, and serving them over HTTP.
package cli
