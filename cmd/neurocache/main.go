// Package main is a small command-line front end for a NeuroCache database.
//
// Usage:
//
//	neurocache demo                 — remember, reopen, recall and clear walkthrough
//	neurocache remember KEY VALUE   — store a value
//	neurocache recall KEY           — print a value (exit 1 if absent)
//	neurocache clear                — delete every value
//	neurocache stats                — print the record count and open/count latencies
//	neurocache version              — print version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	neurocache "github.com/hemansnation/NeuroCache"
	"github.com/hemansnation/NeuroCache/internal/config"
	"github.com/hemansnation/NeuroCache/internal/observability"
)

const (
	version = "0.1.0"
	appName = "neurocache"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	cmd := args[0]
	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "%s v%s\n", appName, version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	}

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logger := observability.NewLogger(cfg.Path, stderr, observability.ParseLevel(cfg.LogLevel))

	switch cmd {
	case "demo":
		err = runDemo(cfg.Path, logger, stdout)
	case "remember":
		err = runRemember(cfg.Path, logger, args[1:], stdout)
	case "recall":
		var found bool
		found, err = runRecall(cfg.Path, logger, args[1:], stdout)
		if err == nil && !found {
			return 1
		}
	case "clear":
		err = neurocache.With(cfg.Path, func(m *neurocache.Memory) error {
			return m.Clear()
		}, neurocache.WithLogger(logger))
	case "stats":
		err = runStats(cfg.Path, logger, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return 2
	}

	if errors.Is(err, errUsage) {
		printUsage(stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%s v%s — durable key-value memory

Usage:
  %s <command> [args]

Commands:
  demo                 Remember, reopen, recall and clear (removes the file afterwards)
  remember KEY VALUE   Store VALUE under KEY
  recall KEY           Print the value stored under KEY
  clear                Delete every stored value
  stats                Print the record count and open/count latencies
  version              Print version

Configuration (./%s, overridden by environment):
  NEUROCACHE_DB         Database file (default: neurocache.db)
  NEUROCACHE_LOG_LEVEL  debug, info, warn or error (default: info)

`, appName, version, appName, config.DefaultFile)
}

func runRemember(path string, logger *observability.Logger, args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}
	return neurocache.With(path, func(m *neurocache.Memory) error {
		if err := m.Remember(args[0], args[1], nil); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "remembered %q\n", args[0])
		return nil
	}, neurocache.WithLogger(logger))
}

func runRecall(path string, logger *observability.Logger, args []string, stdout io.Writer) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	var found bool
	err := neurocache.With(path, func(m *neurocache.Memory) error {
		value, ok, err := m.Get(args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(stdout, value)
		}
		found = ok
		return nil
	}, neurocache.WithLogger(logger))
	return found, err
}

func runStats(path string, logger *observability.Logger, stdout io.Writer) error {
	return neurocache.With(path, func(m *neurocache.Memory) error {
		n, err := m.Len()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %d records\n", m.Path(), n)
		for _, op := range []observability.Op{observability.OpOpen, observability.OpCount} {
			s := m.Latency(string(op))
			if s.Count == 0 {
				continue
			}
			fmt.Fprintf(stdout, "  %-6s n=%d mean=%.3fms p50=%.3fms p95=%.3fms p99=%.3fms max=%.3fms\n",
				op, s.Count, s.Mean, s.P50, s.P95, s.P99, s.Max)
		}
		return nil
	}, neurocache.WithLogger(logger))
}
