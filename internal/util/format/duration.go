package format

import (
	"strconv"
	"time"
)

// HumanizeDuration renders a duration the way build logs print elapsed
// time: "45s", "5m30s", "3h15m51s". Sub-minute values keep one decimal
// when they have a fractional part.
func HumanizeDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		s := d.Seconds()
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10) + "s"
		}
		return strconv.FormatFloat(s, 'f', 1, 64) + "s"
	}

	total := int64(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	var buf [24]byte
	out := buf[:0]
	if h > 0 {
		out = strconv.AppendInt(out, h, 10)
		out = append(out, 'h')
	}
	out = strconv.AppendInt(out, m, 10)
	out = append(out, 'm')
	out = strconv.AppendInt(out, s, 10)
	out = append(out, 's')
	return string(out)
}

// HumanizeRate renders a seconds-per-unit rate, e.g. "2.8s/unit".
// A zero rate is unknown.
func HumanizeRate(secondsPerUnit float64) string {
	if secondsPerUnit <= 0 {
		return "–"
	}
	return strconv.FormatFloat(secondsPerUnit, 'f', 1, 64) + "s/unit"
}
