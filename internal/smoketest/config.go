// Package smoketest drives a running matching service over HTTP:
// it generates randomized candidate/job profiles, submits match and
// batch requests concurrently, and verifies the service's invariants
// on every response.
package smoketest

import (
	"os"
	"time"
)

// Config holds configuration for one smoke run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMatches int           // Number of single match requests
	BatchSize  int           // Jobs per transport batch request
	NumBatches int           // Number of batch requests
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	MatchesSubmitted    int
	MatchesSuccessful   int
	MatchesDegraded     int
	MatchesFailed       int
	BatchesSubmitted    int
	BatchesSuccessful   int
	BatchesFailed       int
	InvariantViolations int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Nextvision Smoke Test Tool
==========================

Drives a running matching service with randomized profiles and checks
response invariants: scores in [0,1], component weights summing to 1,
one transport score per submitted job.

Usage:
  go run cmd/smoke-test/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -matches int
        Number of single match requests (default 1000)
  -batches int
        Number of transport batch requests (default 20)
  -batch-size int
        Jobs per batch request (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Smoke a local service with defaults
  go run cmd/smoke-test/main.go

  # Heavier run against another host
  go run cmd/smoke-test/main.go -matches 10000 -workers 16 -url http://staging:9090
`)
}
