package launcher

import (
	"os"
	"os/exec"
	"strings"
)

// Target names what to launch: either the prebuilt server binary or the
// source-run command, with the server directory as fixed workdir.
type Target struct {
	Command string   // command line to start the server
	Dir     string   // working directory
	Env     []string // extra KEY=VALUE pairs appended to the parent env
}

// buildCommand constructs an *exec.Cmd for the target's command line.
// Plain commands run directly; anything with shell metacharacters or an
// explicit "sh -c" prefix goes through /bin/sh to keep quoting intact.
func buildCommand(tgt Target) *exec.Cmd {
	cmdStr := strings.TrimSpace(tgt.Command)
	var cmd *exec.Cmd
	switch {
	case cmdStr == "":
		// #nosec G204
		cmd = exec.Command("/bin/true")
	case hasExplicitShell(cmdStr):
		// #nosec G204
		cmd = exec.Command("/bin/sh", "-c", stripShellPrefix(cmdStr))
	case strings.ContainsAny(cmdStr, "|&;<>*?`$\"'(){}[]~"):
		// #nosec G204
		cmd = exec.Command("/bin/sh", "-c", cmdStr)
	default:
		parts := strings.Fields(cmdStr)
		// #nosec G204
		cmd = exec.Command(parts[0], parts[1:]...)
	}
	if tgt.Dir != "" {
		cmd.Dir = tgt.Dir
	}
	if len(tgt.Env) > 0 {
		cmd.Env = append(os.Environ(), tgt.Env...)
	}
	return cmd
}

var shellPrefixes = []string{"sh -c ", "/bin/sh -c ", "/usr/bin/sh -c "}

func hasExplicitShell(cmdStr string) bool {
	trim := strings.TrimLeft(cmdStr, " \t")
	for _, p := range shellPrefixes {
		if strings.HasPrefix(trim, p) {
			return true
		}
	}
	return false
}

// stripShellPrefix returns the script after "sh -c ", unwrapping one pair
// of outer quotes so the shell sees the actual script.
func stripShellPrefix(cmdStr string) string {
	trim := strings.TrimLeft(cmdStr, " \t")
	for _, p := range shellPrefixes {
		if strings.HasPrefix(trim, p) {
			after := trim[len(p):]
			if n := len(after); n >= 2 {
				if (after[0] == '\'' && after[n-1] == '\'') || (after[0] == '"' && after[n-1] == '"') {
					after = after[1 : n-1]
				}
			}
			return after
		}
	}
	return cmdStr
}
