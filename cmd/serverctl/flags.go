package main

// GlobalFlags holds persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath string
}

// StartFlags selects launch mode and target.
type StartFlags struct {
	Foreground bool
	FromSource bool
}

// StatusFlags controls status verbosity.
type StatusFlags struct {
	Detail bool
}

// LogsFlags controls the log viewer.
type LogsFlags struct {
	Lines    int
	NoFollow bool
}

// HistoryFlags controls the audit listing.
type HistoryFlags struct {
	Limit int
}
