package schedule

import (
	"fmt"
	"os"
	"strings"
)

// DefaultTailLines is how much of each log the logs subcommand prints.
const DefaultTailLines = 25

// Logs prints the tail of the stdout and stderr capture files written by
// launchd. Missing files are reported, not errors.
func (m *Manager) Logs(lines int) error {
	if lines <= 0 {
		lines = DefaultTailLines
	}

	m.printLogTail("output", m.cfg.Schedule.StdoutLog, lines)
	fmt.Fprintln(m.out)
	m.printLogTail("error", m.cfg.Schedule.StderrLog, lines)
	return nil
}

func (m *Manager) printLogTail(kind, path string, lines int) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(m.out, "No %s log found.\n", kind)
		} else {
			fmt.Fprintf(m.out, "Could not read %s log %s: %v\n", kind, path, err)
		}
		return
	}

	fmt.Fprintf(m.out, "=== %s log (%s) ===\n", kind, path)
	for _, line := range tailLines(string(b), lines) {
		fmt.Fprintln(m.out, line)
	}
}

func tailLines(content string, n int) []string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
