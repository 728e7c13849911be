package progress

import "time"

// Stage identifies a high-level step in a monitoring session.
type Stage string

const (
	StageAttaching Stage = "attaching"
	StageWatching  Stage = "watching"
	StageBuilding  Stage = "building"
	StageCompleted Stage = "completed"
	StageError     Stage = "error"
)

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys derived progress or stage changes for a session.
// Percent is 0..100 when known; set to a negative value (e.g., -1) to mean unknown.
type Update struct {
	SessionID string
	Stage     Stage
	Percent   float64 // 0..100, or <0 if unknown

	UnitsDone  int
	UnitsTotal int            // 0 if unknown
	Trend      Trend          // rate trend vs. previous sample
	ETA        *time.Duration // optional estimated remaining time
	Rate       *string        // optional, e.g., "2.8s/unit"
	Message    string         // short human-friendly status line
}

// Log is a non-progress log line associated with a session.
type Log struct {
	SessionID string
	Stream    LogStream
	Line      string
}

// Result is emitted once per session when it completes or fails.
type Result struct {
	SessionID    string
	LinesRead    int
	SamplesSeen  int
	DupesSkipped int
	Final        *Derived // last derived record; nil if no sample parsed
	Err          error    // nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}
