package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"earnings-scraper/internal/logger"
	"earnings-scraper/internal/schedule"
	"earnings-scraper/internal/scraper"
	"earnings-scraper/internal/store"
)

const usage = `Usage: scrapectl <subcommand>

Subcommands:
  start      register the scheduled scrape job with launchd
  stop       deregister the scheduled scrape job
  status     report whether the job is registered and the next run time
  test       run the scrape once, inline, for manual verification
  logs       print the tail of the captured output and error logs
  edit-time  print instructions for changing the schedule
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	_ = godotenv.Load()
	logger.Init()

	cfg, err := loadConfig("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mgr := schedule.NewManager(cfg, os.Stdout)

	switch os.Args[1] {
	case "start":
		err = mgr.Start()
	case "stop":
		err = mgr.Stop()
	case "status":
		err = mgr.Status()
	case "test":
		err = runTest(cfg)
	case "logs":
		err = mgr.Logs(schedule.DefaultTailLines)
	case "edit-time":
		err = mgr.EditTime()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTest invokes the scraping entry point synchronously for today, the
// same path the scheduled job takes.
func runTest(cfg *store.Config) error {
	date := time.Now().Format("20060102")
	fmt.Printf("Running scrape for %s...\n", date)

	s := scraper.NewFromConfig(cfg, false)
	rep, err := s.Run(context.Background(), date)
	if err != nil {
		return err
	}

	fmt.Printf("Scraped %d companies (status: %s)\n", len(rep.Companies), rep.Status)
	return nil
}

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
