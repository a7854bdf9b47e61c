package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"earnings-scraper/internal/logger"
	"earnings-scraper/internal/scraper"
	"earnings-scraper/internal/store"
	"earnings-scraper/internal/trace"
)

func main() {
	date := flag.String("date", "", "target date as YYYYMMDD (default: today)")
	fetcher := flag.String("fetcher", "", "fetcher variant: static or dynamic (default: config)")
	visible := flag.Bool("visible", false, "run the browser with a visible window")
	debug := flag.Bool("debug", false, "debug verbosity and page snapshots")
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	if *debug {
		os.Setenv("LOG_DETAILED", "true")
		os.Setenv("LOG_LEVEL", "DEBUG")
	}
	logger.Init()
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracing: %v\n", err)
	}
	ctx := context.Background()
	defer trace.Shutdown(ctx)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	switch *fetcher {
	case "":
	case "static":
		cfg.Fetcher = "STATIC"
	case "dynamic":
		cfg.Fetcher = "DYNAMIC"
	default:
		fmt.Fprintf(os.Stderr, "Unknown -fetcher %q: must be static or dynamic\n", *fetcher)
		os.Exit(1)
	}
	if *visible {
		cfg.Browser.Visible = true
	}

	targetDate := *date
	if targetDate == "" {
		targetDate = time.Now().Format("20060102")
	}
	if _, err := time.Parse("20060102", targetDate); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -date %q: must be YYYYMMDD\n", targetDate)
		os.Exit(1)
	}

	s := scraper.NewFromConfig(cfg, *debug)
	rep, err := s.Run(ctx, targetDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scrape failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scraped %d companies for %s (status: %s)\n", len(rep.Companies), rep.Date, rep.Status)
}

// loadConfig falls back to built-in defaults when no config file exists,
// so a bare `scrape` invocation still works.
func loadConfig(path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return store.DefaultConfig(), nil
	}
	return nil, err
}
