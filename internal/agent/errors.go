package agent

import "fmt"

// SpawnError means the agent process could not be started at all.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start agent %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ProcessError means the agent exited with a non-zero status.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("agent exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("agent exited with code %d: %s", e.ExitCode, e.Stderr)
}

// MissingOutputError means the agent exited cleanly but never wrote its
// result file.
type MissingOutputError struct {
	Path string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("agent finished but produced no result at %s; check the run log", e.Path)
}

// MalformedOutputError means the result file exists but does not decode as
// an agent output.
type MalformedOutputError struct {
	Path string
	Err  error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("agent result %s is malformed: %v", e.Path, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
