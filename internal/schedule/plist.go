package schedule

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// launchd job descriptor. The trigger times are rendered once per
// weekday (Monday through Friday); launchd has no single "weekdays"
// shorthand, so the intervals are enumerated.
const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.Binary}}</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkingDir}}</string>
	<key>StandardOutPath</key>
	<string>{{.StdoutLog}}</string>
	<key>StandardErrorPath</key>
	<string>{{.StderrLog}}</string>
	<key>StartCalendarInterval</key>
	<array>
{{- range .Triggers}}
		<dict>
			<key>Weekday</key>
			<integer>{{.Weekday}}</integer>
			<key>Hour</key>
			<integer>{{.Hour}}</integer>
			<key>Minute</key>
			<integer>{{.Minute}}</integer>
		</dict>
{{- end}}
	</array>
</dict>
</plist>
`

type trigger struct {
	Weekday int // 1 = Monday ... 5 = Friday, launchd numbering
	Hour    int
	Minute  int
}

type plistData struct {
	Label      string
	Binary     string
	WorkingDir string
	StdoutLog  string
	StderrLog  string
	Triggers   []trigger
}

var plistTmpl = template.Must(template.New("plist").Parse(plistTemplate))

// renderPlist produces the job descriptor for the given weekday trigger
// times (HH:MM).
func renderPlist(data plistData, times []string) (string, error) {
	for _, t := range times {
		hour, minute, err := parseClock(t)
		if err != nil {
			return "", err
		}
		for weekday := 1; weekday <= 5; weekday++ {
			data.Triggers = append(data.Triggers, trigger{Weekday: weekday, Hour: hour, Minute: minute})
		}
	}

	var buf bytes.Buffer
	if err := plistTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid trigger time %q: must be HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid trigger hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid trigger minute in %q", s)
	}
	return hour, minute, nil
}

// nextTrigger reports the next weekday firing at or after now.
func nextTrigger(now time.Time, times []string) (time.Time, error) {
	var best time.Time
	for _, t := range times {
		hour, minute, err := parseClock(t)
		if err != nil {
			return time.Time{}, err
		}
		// Look ahead at most a week; the schedule fires every weekday.
		for day := 0; day <= 7; day++ {
			cand := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()).AddDate(0, 0, day)
			if cand.Before(now) {
				continue
			}
			if wd := cand.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			if best.IsZero() || cand.Before(best) {
				best = cand
			}
			break
		}
	}
	if best.IsZero() {
		return time.Time{}, fmt.Errorf("no trigger times configured")
	}
	return best, nil
}
