package schedule

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"earnings-scraper/internal/store"
)

// Runner executes a host command. launchctl goes through this so tests
// can substitute a fake.
type Runner interface {
	Run(name string, args ...string) (output string, err error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}

// Manager drives the launchd job. Every action is one-shot and
// idempotent where possible: loading a loaded job or unloading an absent
// one reports a message instead of failing. launchctl errors surface as
// status text, never as crashes.
type Manager struct {
	cfg      *store.Config
	runner   Runner
	out      io.Writer
	agentDir string
	now      func() time.Time
}

func NewManager(cfg *store.Config, out io.Writer) *Manager {
	home, _ := os.UserHomeDir()
	return &Manager{
		cfg:      cfg,
		runner:   execRunner{},
		out:      out,
		agentDir: filepath.Join(home, "Library", "LaunchAgents"),
		now:      time.Now,
	}
}

func (m *Manager) plistPath() string {
	return filepath.Join(m.agentDir, m.cfg.Schedule.Label+".plist")
}

// Start registers the recurring job, writing the descriptor first when
// it does not exist yet.
func (m *Manager) Start() error {
	path := m.plistPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := m.writePlist(path); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Wrote job descriptor %s\n", path)
	}

	out, err := m.runner.Run("launchctl", "load", "-w", path)
	switch {
	case err == nil:
		fmt.Fprintf(m.out, "Scheduled job %s loaded.\n", m.cfg.Schedule.Label)
	case strings.Contains(out, "already loaded"):
		fmt.Fprintf(m.out, "Job %s is already loaded, nothing to do.\n", m.cfg.Schedule.Label)
	default:
		fmt.Fprintf(m.out, "launchctl load failed: %v\n%s", err, out)
	}
	m.printNextRun()
	return nil
}

// Stop deregisters the job. An absent job is informative, not fatal.
func (m *Manager) Stop() error {
	path := m.plistPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(m.out, "No job descriptor at %s; nothing to stop.\n", path)
		return nil
	}

	out, err := m.runner.Run("launchctl", "unload", path)
	switch {
	case err == nil:
		fmt.Fprintf(m.out, "Scheduled job %s unloaded.\n", m.cfg.Schedule.Label)
	case strings.Contains(out, "Could not find"):
		fmt.Fprintf(m.out, "Job %s was not loaded; nothing to stop.\n", m.cfg.Schedule.Label)
	default:
		fmt.Fprintf(m.out, "launchctl unload failed: %v\n%s", err, out)
	}
	return nil
}

// Status reports whether the job is registered and when it fires next.
func (m *Manager) Status() error {
	_, err := m.runner.Run("launchctl", "list", m.cfg.Schedule.Label)
	if err != nil {
		fmt.Fprintf(m.out, "Job %s is not loaded.\n", m.cfg.Schedule.Label)
		fmt.Fprintf(m.out, "Run 'scrapectl start' to register it.\n")
		return nil
	}

	fmt.Fprintf(m.out, "Job %s is loaded.\n", m.cfg.Schedule.Label)
	m.printNextRun()
	return nil
}

func (m *Manager) printNextRun() {
	next, err := nextTrigger(m.now(), m.cfg.Schedule.Times)
	if err != nil {
		return
	}
	fmt.Fprintf(m.out, "Next run expected at %s (weekdays at %s).\n",
		next.Format("Mon 2006-01-02 15:04"),
		strings.Join(m.cfg.Schedule.Times, ", "))
}

// EditTime prints instructions only; the descriptor's schedule is edited
// out-of-band by the operator.
func (m *Manager) EditTime() error {
	fmt.Fprintf(m.out, "To change the schedule:\n")
	fmt.Fprintf(m.out, "  1. Edit schedule.times in config.yaml (HH:MM, fired Mon-Fri).\n")
	fmt.Fprintf(m.out, "  2. Remove the old descriptor: rm %s\n", m.plistPath())
	fmt.Fprintf(m.out, "  3. Run 'scrapectl stop' then 'scrapectl start' to re-register.\n")
	return nil
}

func (m *Manager) writePlist(path string) error {
	workingDir, err := os.Getwd()
	if err != nil {
		return err
	}
	binary := m.cfg.Schedule.ScrapeBinary
	if !filepath.IsAbs(binary) {
		binary = filepath.Join(workingDir, binary)
	}

	content, err := renderPlist(plistData{
		Label:      m.cfg.Schedule.Label,
		Binary:     binary,
		WorkingDir: workingDir,
		StdoutLog:  absPath(workingDir, m.cfg.Schedule.StdoutLog),
		StderrLog:  absPath(workingDir, m.cfg.Schedule.StderrLog),
	}, m.cfg.Schedule.Times)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func absPath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
