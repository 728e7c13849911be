package progress

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Duration token grammar, in precedence order. An "HhMmSs" token must
// not be misread as "MmSs", so each form anchors the whole token.
var (
	reHMS   = regexp.MustCompile(`^(\d+)h(\d+)m(\d+(?:\.\d+)?)s$`)
	reMS    = regexp.MustCompile(`^(\d+)m(\d+(?:\.\d+)?)s$`)
	reMOnly = regexp.MustCompile(`^(\d+)m$`)
	reSOnly = regexp.MustCompile(`^(\d+(?:\.\d+)?)s?$`)
)

// ParseDuration converts a build-log elapsed-time token into a duration.
// Accepted forms: "3h15m51.62s", "5m30s", "5m30.5s", "5m", "45s", "300".
// time.ParseDuration is not used here: it accepts forms outside this
// grammar ("1h5s", "200ms", negatives) and rejects the bare "300" form.
func ParseDuration(token string) (time.Duration, error) {
	if m := reHMS.FindStringSubmatch(token); m != nil {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, err
		}
		min, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, err
		}
		sec, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, err
		}
		return seconds(float64(h)*3600 + float64(min)*60 + sec), nil
	}
	if m := reMS.FindStringSubmatch(token); m != nil {
		min, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, err
		}
		sec, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, err
		}
		return seconds(float64(min)*60 + sec), nil
	}
	if m := reMOnly.FindStringSubmatch(token); m != nil {
		min, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, err
		}
		return time.Duration(min) * time.Minute, nil
	}
	if m := reSOnly.FindStringSubmatch(token); m != nil {
		sec, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		return seconds(sec), nil
	}
	return 0, fmt.Errorf("unrecognized duration token %q", token)
}

// seconds rounds instead of truncating so that e.g. 11751.62s survives
// the float trip as exactly 11751620ms.
func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
