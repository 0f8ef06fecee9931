package proc

// Signaler abstracts the platform's process primitives so liveness and
// shutdown logic can be tested against fakes. It must be safe for
// concurrent use.
type Signaler interface {
	// Alive reports whether pid currently refers to a live process.
	// The probe must not affect the target process.
	Alive(pid int) bool
	// Terminate asks pid to exit gracefully. On platforms without a
	// graceful primitive it behaves like Kill.
	Terminate(pid int) error
	// Kill terminates pid unconditionally.
	Kill(pid int) error
	// StartTime returns the process start time as Unix seconds, or 0
	// when unavailable.
	StartTime(pid int) int64
}

// OS returns the Signaler backed by the host platform's syscalls.
func OS() Signaler { return osSignaler{} }
