package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/Bapt252/nextvision/internal/smoketest"
	"github.com/Bapt252/nextvision/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumMatches  = 1000
	defaultNumBatches  = 20
	defaultBatchSize   = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numMatches = flag.Int("matches", defaultNumMatches, "Number of single match requests")
		numBatches = flag.Int("batches", defaultNumBatches, "Number of transport batch requests")
		batchSize  = flag.Int("batch-size", defaultBatchSize, "Jobs per batch request")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoketest.Config{
		BaseURL:    *baseURL,
		NumMatches: *numMatches,
		NumBatches: *numBatches,
		BatchSize:  *batchSize,
		Workers:    *workers,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
