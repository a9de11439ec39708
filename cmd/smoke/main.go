package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/scorecalc/internal/smoke"
)

// Default configuration constants.
const (
	defaultRepeat   = 20
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 10 * time.Second
	defaultRunLimit = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		repeat    = flag.Int("repeat", defaultRepeat, "Calculations submitted per calculator")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFormat = flag.String("log-format", "text", "Log encoding: text or json")
		verbose   = flag.Bool("verbose", false, "Log every verified request")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFormat, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL: *baseURL,
		Repeat:  *repeat,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if _, err := smoke.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
