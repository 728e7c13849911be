package progress

import (
	"regexp"
	"strconv"
	"time"
)

// Sample is the structured form of one progress line, e.g.
// "[26157/60927] 3h15m51.62s 2.76s[wait-local]: CXX obj/...".
// TotalField carries the second bracketed number exactly as printed;
// whether it means "total units" or "remaining units" is decided later
// by the estimator's TotalMode.
type Sample struct {
	UnitsDone  int
	TotalField int
	Elapsed    time.Duration
	ObservedAt time.Time // capture time, never parsed from the line
}

// counts matches the "[done/total]" prefix plus the first non-whitespace
// token after the closing bracket. Surrounding text is arbitrary: build
// lines carry target names before and annotations after.
var counts = regexp.MustCompile(`\[(\d+)/(\d+)\]\s*(\S+)`)

// ParseLine extracts a Sample from a single log line.
// Returns ok=false when the line is not a progress line: no bracketed
// count pair, or the token after the brackets is missing or not a
// duration. A sample is never returned with a guessed duration.
func ParseLine(line string) (Sample, bool) {
	m := counts.FindStringSubmatch(line)
	if m == nil {
		return Sample{}, false
	}

	done, err := strconv.Atoi(m[1])
	if err != nil {
		return Sample{}, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil {
		return Sample{}, false
	}

	elapsed, err := ParseDuration(m[3])
	if err != nil {
		return Sample{}, false
	}

	return Sample{
		UnitsDone:  done,
		TotalField: total,
		Elapsed:    elapsed,
		ObservedAt: time.Now(),
	}, true
}
