package inspect

// CommandError reports that the external tool could not be spawned or that it
// exited with a non-zero status. Spawn-level detail is not preserved; the
// tool's own diagnostic output is written to the service's output writer
// before this error is returned.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string {
	return "command error: " + e.Message
}

// IOError reports that a report file could not be written.
type IOError struct {
	Message string
	Err     error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return "io error: " + e.Message + ": " + e.Err.Error()
	}
	return "io error: " + e.Message
}

func (e *IOError) Unwrap() error {
	return e.Err
}
