package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/broadphase/internal/config"
	"github.com/zeusync/broadphase/internal/injector"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	cellSize := flag.Int("cell-size", 0, "override the default grid cell size")
	workers := flag.Int("workers", 0, "override the number of scenarios replayed in parallel")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scenario.yaml...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			return 2
		}
	}
	if *cellSize > 0 {
		cfg.CellSize = *cellSize
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	runner, err := injector.InitializeRunner(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing runner:", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := runner.RunFiles(ctx, flag.Args()...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error replaying scenarios:", err)
		return 1
	}

	code := 0
	for _, res := range results {
		status := "ok"
		if !res.OK() {
			status = "FAIL"
			code = 1
		}
		fmt.Printf("%-4s %-24s steps=%d digest=%s elapsed=%s\n", status, res.Scenario, res.Steps, res.DigestHex(), res.Elapsed)
		for _, failure := range res.Failures {
			fmt.Printf("     %v\n", failure)
		}
	}
	return code
}
