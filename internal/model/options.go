package model

// TotalFieldMode names the accepted values for the --total-field flag.
type TotalFieldMode string

const (
	TotalFieldTotal     TotalFieldMode = "total"
	TotalFieldRemaining TotalFieldMode = "remaining"
)

// CLIOptions holds user-configurable runtime options as parsed from flags.
type CLIOptions struct {
	TotalField TotalFieldMode // total | remaining
	FromStart  bool           // Replay existing file content before following
	Follow     bool           // Keep reading as the source grows
	DedupCap   int            // Seen-lines window; 0 = default
	ReportPath string         // Optional path for a sidecar summary file
	BuildBin   string         // Optional explicit path to the build tool

	Verbose bool
	NoUI    bool // Disable TUI when true
	Jobs    int  // Max concurrent sources in TUI
}

// MonitorSource is a single thing to watch: a log file or stdin.
type MonitorSource struct {
	Arg   string // As given on the command line
	Path  string // Cleaned path, or "-" for stdin
	Stdin bool
}
